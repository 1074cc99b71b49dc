// Package chars classifies single code points.
//
// Every predicate is pure and total over rune. Values outside the ASCII range
// are simply not ASCII; values above U+10FFFF are not Unicode. The parse
// helpers expect their input to already satisfy the matching predicate.
package chars

const maxCodePoint = 0x10FFFF

func IsASCII(r rune) bool { return r >= 0 && r < 0x80 }

func IsASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

func IsASCIIUpperAlpha(r rune) bool { return r >= 'A' && r <= 'Z' }

func IsASCIILowerAlpha(r rune) bool { return r >= 'a' && r <= 'z' }

func IsASCIIAlpha(r rune) bool { return IsASCIILowerAlpha(r) || IsASCIIUpperAlpha(r) }

func IsASCIIAlphanumeric(r rune) bool { return IsASCIIAlpha(r) || IsASCIIDigit(r) }

func IsASCIIBinaryDigit(r rune) bool { return r == '0' || r == '1' }

func IsASCIIOctalDigit(r rune) bool { return r >= '0' && r <= '7' }

func IsASCIIHexDigit(r rune) bool {
	return IsASCIIDigit(r) || (r >= 'A' && r <= 'F') || (r >= 'a' && r <= 'f')
}

func IsASCIIBase36Digit(r rune) bool {
	return IsASCIIDigit(r) || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// IsASCIIDigitInBase reports whether r is a digit in the given base.
// Supported bases are 2, 8, 10, 16 and 36; any other base reports false.
func IsASCIIDigitInBase(r rune, base int) bool {
	switch base {
	case 2:
		return IsASCIIBinaryDigit(r)
	case 8:
		return IsASCIIOctalDigit(r)
	case 10:
		return IsASCIIDigit(r)
	case 16:
		return IsASCIIHexDigit(r)
	case 36:
		return IsASCIIBase36Digit(r)
	default:
		return false
	}
}

// IsASCIIBlank reports space and horizontal tab.
func IsASCIIBlank(r rune) bool { return r == '\t' || r == ' ' }

// IsASCIISpace reports tab, line feed, vertical tab, form feed, carriage return and space.
func IsASCIISpace(r rune) bool { return (r >= '\t' && r <= '\r') || r == ' ' }

func IsASCIIPunctuation(r rune) bool {
	return (r >= 0x21 && r <= 0x2F) || (r >= 0x3A && r <= 0x40) ||
		(r >= 0x5B && r <= 0x60) || (r >= 0x7B && r <= 0x7E)
}

func IsASCIIGraphical(r rune) bool { return r >= 0x21 && r <= 0x7E }

func IsASCIIPrintable(r rune) bool { return r >= 0x20 && r <= 0x7E }

func IsASCIIC0Control(r rune) bool { return r >= 0 && r <= 0x1F }

func IsASCIIControl(r rune) bool { return IsASCIIC0Control(r) || r == 0x7F }

func IsUnicode(r rune) bool { return r >= 0 && r <= maxCodePoint }

// IsUnicodeControl reports the C0 controls, DEL and the C1 controls.
func IsUnicodeControl(r rune) bool { return IsASCIIControl(r) || (r >= 0x80 && r <= 0x9F) }

func IsUnicodeSurrogate(r rune) bool { return r >= 0xD800 && r <= 0xDFFF }

func IsUnicodeScalarValue(r rune) bool { return IsUnicode(r) && !IsUnicodeSurrogate(r) }

// IsUnicodeNoncharacter reports U+FDD0..U+FDEF and the last two code points of every plane.
func IsUnicodeNoncharacter(r rune) bool {
	return IsUnicode(r) && ((r >= 0xFDD0 && r <= 0xFDEF) || (r&0xFFFE) == 0xFFFE)
}

// ToASCIILowercase folds A-Z and leaves every other value untouched.
func ToASCIILowercase(r rune) rune {
	if IsASCIIUpperAlpha(r) {
		return r + 0x20
	}
	return r
}

// ToASCIIUppercase folds a-z and leaves every other value untouched.
func ToASCIIUppercase(r rune) rune {
	if IsASCIILowerAlpha(r) {
		return r - 0x20
	}
	return r
}

// ParseASCIIDigit returns the value of a decimal digit. It panics when r is not one.
func ParseASCIIDigit(r rune) int {
	if !IsASCIIDigit(r) {
		panic("chars: ParseASCIIDigit called with a non-digit")
	}
	return int(r - '0')
}

// ParseASCIIHexDigit returns the value of a hexadecimal digit. It panics when r is not one.
func ParseASCIIHexDigit(r rune) int {
	switch {
	case IsASCIIDigit(r):
		return int(r - '0')
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	}
	panic("chars: ParseASCIIHexDigit called with a non-hex digit")
}

// ParseASCIIBase36Digit returns the value of a base-36 digit. It panics when r is not one.
func ParseASCIIBase36Digit(r rune) int {
	switch {
	case IsASCIIDigit(r):
		return int(r - '0')
	case IsASCIIUpperAlpha(r):
		return int(r-'A') + 10
	case IsASCIILowerAlpha(r):
		return int(r-'a') + 10
	}
	panic("chars: ParseASCIIBase36Digit called with a non-base36 digit")
}

// ToASCIIBase36Digit returns the lowercase digit for a value in [0, 36). It panics otherwise.
func ToASCIIBase36Digit(digit int) rune {
	const base36Map = "0123456789abcdefghijklmnopqrstuvwxyz"
	if digit < 0 || digit >= len(base36Map) {
		panic("chars: ToASCIIBase36Digit called with a value out of range")
	}
	return rune(base36Map[digit])
}

// Byte adapts a code point predicate to a byte predicate, the form the lexer consumes.
func Byte(pred func(rune) bool) func(byte) bool {
	return func(b byte) bool { return pred(rune(b)) }
}
