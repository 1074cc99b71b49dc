// Package utf16view provides a zero-copy, code-point aware view over UTF-16 code units.
//
// Unpaired surrogates are reported as themselves by both CodePointAt and the
// iterators. Only String substitutes U+FFFD, because UTF-8 cannot carry them.
package utf16view

import (
	"iter"
	"strings"
	"unicode/utf16"

	"github.com/teranos/idlc/chars"
)

const (
	highSurrogateMin   = 0xD800
	highSurrogateMax   = 0xDBFF
	lowSurrogateMin    = 0xDC00
	lowSurrogateMax    = 0xDFFF
	replacementChar    = 0xFFFD
	firstSupplementary = 0x10000
)

func IsHighSurrogate(unit uint16) bool { return unit >= highSurrogateMin && unit <= highSurrogateMax }

func IsLowSurrogate(unit uint16) bool { return unit >= lowSurrogateMin && unit <= lowSurrogateMax }

// DecodeSurrogatePair combines a high and a low surrogate into a supplementary code point.
func DecodeSurrogatePair(high, low uint16) rune {
	return (rune(high)-highSurrogateMin)<<10 + (rune(low) - lowSurrogateMin) + firstSupplementary
}

// View is a read-only window over a slice of UTF-16 code units.
// The zero value is an empty view.
type View struct {
	units []uint16

	// Cached by LengthInCodePoints; -1 until computed.
	cpLength int
}

// New wraps units without copying them. The caller must not mutate units while the view is in use.
func New(units []uint16) *View {
	return &View{units: units, cpLength: -1}
}

// FromString encodes s as UTF-16 and wraps the result.
func FromString(s string) *View {
	return New(utf16.Encode([]rune(s)))
}

func (v *View) IsEmpty() bool { return len(v.units) == 0 }

func (v *View) LengthInCodeUnits() int { return len(v.units) }

// Units exposes the underlying code units.
func (v *View) Units() []uint16 { return v.units }

// LengthInCodePoints counts code points once and caches the result.
func (v *View) LengthInCodePoints() int {
	if v.cpLength < 0 {
		n := 0
		it := v.CodePoints()
		for {
			if _, _, ok := it.Next(); !ok {
				break
			}
			n++
		}
		v.cpLength = n
	}
	return v.cpLength
}

// CodeUnitAt returns the code unit at index. It panics when index is out of range.
func (v *View) CodeUnitAt(index int) uint16 {
	return v.units[index]
}

// CodePointAt returns the code point starting at the given code unit index.
// A valid surrogate pair is combined; any other surrogate is returned unchanged.
func (v *View) CodePointAt(index int) rune {
	unit := v.units[index]
	if !IsHighSurrogate(unit) || index+1 >= len(v.units) {
		return rune(unit)
	}
	next := v.units[index+1]
	if !IsLowSurrogate(next) {
		return rune(unit)
	}
	return DecodeSurrogatePair(unit, next)
}

// CodePointOffsetOf converts a code unit offset into a code point offset.
// An offset pointing into the middle of a pair counts the pair as consumed.
func (v *View) CodePointOffsetOf(codeUnitOffset int) int {
	cpOffset := 0
	it := v.CodePoints()
	for it.Position() < codeUnitOffset {
		if _, _, ok := it.Next(); !ok {
			break
		}
		cpOffset++
	}
	return cpOffset
}

// CodeUnitOffsetOf converts a code point offset into a code unit offset.
func (v *View) CodeUnitOffsetOf(codePointOffset int) int {
	it := v.CodePoints()
	for i := 0; i < codePointOffset; i++ {
		if _, _, ok := it.Next(); !ok {
			break
		}
	}
	return it.Position()
}

// SubstringView returns a view over length code units starting at offset.
// It panics when the range is out of bounds.
func (v *View) SubstringView(offset, length int) *View {
	if offset < 0 || length < 0 || offset+length > len(v.units) {
		panic("utf16view: substring out of range")
	}
	return New(v.units[offset : offset+length])
}

// SubstringFrom returns the view from offset to the end.
func (v *View) SubstringFrom(offset int) *View {
	return v.SubstringView(offset, len(v.units)-offset)
}

// UnicodeSubstringView returns a view over length code points starting at the
// code point offset cpOffset. It panics when the range runs past the end.
func (v *View) UnicodeSubstringView(cpOffset, cpLength int) *View {
	if cpLength == 0 {
		return New(nil)
	}

	it := v.CodePoints()
	start := -1
	for i := 0; ; i++ {
		if i == cpOffset {
			start = it.Position()
		}
		if _, _, ok := it.Next(); !ok {
			break
		}
		if start >= 0 && i == cpOffset+cpLength-1 {
			return New(v.units[start:it.Position()])
		}
	}
	panic("utf16view: unicode substring out of range")
}

// Validate reports whether the view holds well-formed UTF-16, and how many
// leading code units are valid.
func (v *View) Validate() (validUnits int, ok bool) {
	for i := 0; i < len(v.units); i++ {
		unit := v.units[i]
		switch {
		case IsHighSurrogate(unit):
			if i+1 >= len(v.units) || !IsLowSurrogate(v.units[i+1]) {
				return i, false
			}
			i++
		case IsLowSurrogate(unit):
			return i, false
		}
	}
	return len(v.units), true
}

// EqualsIgnoringASCIICase compares two views code point by code point,
// folding only ASCII letters.
func (v *View) EqualsIgnoringASCIICase(other *View) bool {
	if len(v.units) != len(other.units) {
		return false
	}
	for i, unit := range v.units {
		a, b := rune(unit), rune(other.units[i])
		if chars.ToASCIILowercase(a) != chars.ToASCIILowercase(b) {
			return false
		}
	}
	return true
}

// String converts to UTF-8. Unpaired surrogates become U+FFFD.
func (v *View) String() string {
	var sb strings.Builder
	sb.Grow(len(v.units))
	it := v.CodePoints()
	for {
		cp, _, ok := it.Next()
		if !ok {
			break
		}
		if chars.IsUnicodeSurrogate(cp) {
			cp = replacementChar
		}
		sb.WriteRune(cp)
	}
	return sb.String()
}

// CodePoints returns a restartable iterator over the view.
func (v *View) CodePoints() *Iterator {
	return &Iterator{units: v.units}
}

// All yields each code unit offset together with the code point that starts there.
func (v *View) All() iter.Seq2[int, rune] {
	return func(yield func(int, rune) bool) {
		it := v.CodePoints()
		for {
			pos := it.Position()
			cp, _, ok := it.Next()
			if !ok || !yield(pos, cp) {
				return
			}
		}
	}
}

// Iterator walks a view one code point at a time.
type Iterator struct {
	units []uint16
	pos   int
}

// Next returns the current code point, the number of code units it spans
// (1 or 2), and advances. ok is false once the view is exhausted.
func (it *Iterator) Next() (cp rune, units int, ok bool) {
	if it.pos >= len(it.units) {
		return 0, 0, false
	}
	unit := it.units[it.pos]
	if IsHighSurrogate(unit) && it.pos+1 < len(it.units) && IsLowSurrogate(it.units[it.pos+1]) {
		cp = DecodeSurrogatePair(unit, it.units[it.pos+1])
		it.pos += 2
		return cp, 2, true
	}
	it.pos++
	return rune(unit), 1, true
}

// Peek returns the code point Next would return without advancing.
func (it *Iterator) Peek() (rune, bool) {
	saved := it.pos
	cp, _, ok := it.Next()
	it.pos = saved
	return cp, ok
}

// Position is the code unit offset of the next code point.
func (it *Iterator) Position() int { return it.pos }

func (it *Iterator) Done() bool { return it.pos >= len(it.units) }

func (it *Iterator) Reset() { it.pos = 0 }
