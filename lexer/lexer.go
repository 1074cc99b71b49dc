// Package lexer provides a cursor-based scanner over an immutable input string.
//
// The Lexer never mutates its input. Every consume operation returns a slice of
// the original string; "until" operations never consume the terminator, while
// "ignore until" operations do. Peeking past the end yields the zero byte.
package lexer

import (
	"strings"

	"github.com/teranos/idlc/chars"
	"github.com/teranos/idlc/errors"
)

// Sentinel errors for escaped code points.
var (
	ErrMalformedUnicodeEscape = errors.New("malformed unicode escape")
	ErrUnicodeEscapeOverflow  = errors.New("unicode escape exceeds U+10FFFF")
)

// Lexer is a byte cursor over input.
type Lexer struct {
	input string
	index int
}

// New returns a Lexer positioned at the start of input.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Input returns the complete input the lexer was created with.
func (l *Lexer) Input() string { return l.input }

// Tell returns the current byte offset.
func (l *Lexer) Tell() int { return l.index }

// TellRemaining returns the number of unread bytes.
func (l *Lexer) TellRemaining() int { return len(l.input) - l.index }

// Remaining returns the unread part of the input.
func (l *Lexer) Remaining() string { return l.input[l.index:] }

func (l *Lexer) IsEOF() bool { return l.index >= len(l.input) }

// Peek returns the byte offset positions ahead, or 0 past the end.
func (l *Lexer) Peek(offset int) byte {
	if l.index+offset < len(l.input) {
		return l.input[l.index+offset]
	}
	return 0
}

func (l *Lexer) NextIs(expected byte) bool { return l.Peek(0) == expected }

func (l *Lexer) NextIsString(expected string) bool {
	return strings.HasPrefix(l.Remaining(), expected)
}

func (l *Lexer) NextIsFunc(pred func(byte) bool) bool { return pred(l.Peek(0)) }

// Retreat moves the cursor back n bytes. It panics when that would pass the start.
func (l *Lexer) Retreat(n int) {
	if n > l.index {
		panic("lexer: retreat past start of input")
	}
	l.index -= n
}

// Consume returns the current byte and advances. Calling it at EOF is a programming error.
func (l *Lexer) Consume() byte {
	if l.IsEOF() {
		panic("lexer: consume at end of input")
	}
	b := l.input[l.index]
	l.index++
	return b
}

// ConsumeN returns the next n bytes, clamped to the end of input.
func (l *Lexer) ConsumeN(n int) string {
	end := l.index + n
	if end > len(l.input) {
		end = len(l.input)
	}
	s := l.input[l.index:end]
	l.index = end
	return s
}

// ConsumeSpecific advances past next when it is the current byte.
func (l *Lexer) ConsumeSpecific(next byte) bool {
	if !l.NextIs(next) || l.IsEOF() {
		return false
	}
	l.index++
	return true
}

// ConsumeSpecificString advances past next when the input continues with it.
func (l *Lexer) ConsumeSpecificString(next string) bool {
	if !l.NextIsString(next) {
		return false
	}
	l.index += len(next)
	return true
}

// ConsumeSpecificFunc advances one byte when pred accepts it.
func (l *Lexer) ConsumeSpecificFunc(pred func(byte) bool) bool {
	if l.IsEOF() || !pred(l.Peek(0)) {
		return false
	}
	l.index++
	return true
}

func (l *Lexer) ConsumeWhile(pred func(byte) bool) string {
	start := l.index
	for !l.IsEOF() && pred(l.input[l.index]) {
		l.index++
	}
	return l.input[start:l.index]
}

func (l *Lexer) ConsumeUntil(pred func(byte) bool) string {
	start := l.index
	for !l.IsEOF() && !pred(l.input[l.index]) {
		l.index++
	}
	return l.input[start:l.index]
}

func (l *Lexer) ConsumeUntilByte(stop byte) string {
	return l.ConsumeUntil(func(b byte) bool { return b == stop })
}

// ConsumeUntilString stops at the first occurrence of stop, or at EOF.
func (l *Lexer) ConsumeUntilString(stop string) string {
	start := l.index
	if i := strings.Index(l.input[l.index:], stop); i >= 0 {
		l.index += i
	} else {
		l.index = len(l.input)
	}
	return l.input[start:l.index]
}

// ConsumeAll returns everything left.
func (l *Lexer) ConsumeAll() string {
	s := l.input[l.index:]
	l.index = len(l.input)
	return s
}

// ConsumeLine returns the rest of the current line and skips the line break,
// which may be "\n", "\r" or "\r\n".
func (l *Lexer) ConsumeLine() string {
	line := l.ConsumeUntil(func(b byte) bool { return b == '\n' || b == '\r' })
	l.ConsumeSpecific('\r')
	l.ConsumeSpecific('\n')
	return line
}

// Ignore skips up to n bytes.
func (l *Lexer) Ignore(n int) {
	l.ConsumeN(n)
}

func (l *Lexer) IgnoreWhile(pred func(byte) bool) {
	l.ConsumeWhile(pred)
}

// IgnoreUntil skips to the first byte accepted by pred and consumes it.
func (l *Lexer) IgnoreUntil(pred func(byte) bool) {
	l.ConsumeUntil(pred)
	if !l.IsEOF() {
		l.index++
	}
}

// IgnoreUntilByte skips past the next occurrence of stop.
func (l *Lexer) IgnoreUntilByte(stop byte) {
	l.IgnoreUntil(func(b byte) bool { return b == stop })
}

// ConsumeQuotedString returns the interior of a quoted string starting at the
// cursor. escape, when non-zero, protects the following byte from ending the
// string. When there is no opening quote, or no closing quote, the cursor is
// left where it was and ok is false.
func (l *Lexer) ConsumeQuotedString(escape byte) (interior string, ok bool) {
	if !l.NextIsFunc(IsQuote) {
		return "", false
	}
	start := l.index
	quote := l.Consume()
	for !l.IsEOF() {
		b := l.input[l.index]
		if escape != 0 && b == escape && l.index+1 < len(l.input) {
			l.index += 2
			continue
		}
		if b == quote {
			interior = l.input[start+1 : l.index]
			l.index++
			return interior, true
		}
		l.index++
	}
	l.index = start
	return "", false
}

var defaultEscapeMap = map[byte]byte{
	'n': '\n',
	'r': '\r',
	't': '\t',
	'b': '\b',
	'f': '\f',
}

// ConsumeEscapedCharacter consumes escape followed by a byte from escapeMap's
// keys and returns the mapped value. A nil map uses the C escapes n r t b f.
// When the escape byte is followed by something unmapped, that byte is returned.
func (l *Lexer) ConsumeEscapedCharacter(escape byte, escapeMap map[byte]byte) (byte, bool) {
	if !l.ConsumeSpecific(escape) {
		return 0, false
	}
	if l.IsEOF() {
		return escape, true
	}
	if escapeMap == nil {
		escapeMap = defaultEscapeMap
	}
	b := l.Consume()
	if mapped, found := escapeMap[b]; found {
		return mapped, true
	}
	return b, true
}

// ConsumeAndUnescapeString reads a quoted string and resolves its escapes.
func (l *Lexer) ConsumeAndUnescapeString(escape byte) (string, bool) {
	interior, ok := l.ConsumeQuotedString(escape)
	if !ok {
		return "", false
	}
	inner := New(interior)
	var sb strings.Builder
	for !inner.IsEOF() {
		if c, found := inner.ConsumeEscapedCharacter(escape, nil); found {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte(inner.Consume())
	}
	return sb.String(), true
}

// ConsumeEscapedCodePoint decodes "\u{X...}" or "\uXXXX" at the cursor.
// With combineSurrogatePairs set, a high surrogate followed by a "\uXXXX" low
// surrogate is combined into one code point; if the next escape is not a low
// surrogate the cursor is moved back before it and the lone high surrogate is
// returned. On failure the cursor is left where it started.
func (l *Lexer) ConsumeEscapedCodePoint(combineSurrogatePairs bool) (rune, error) {
	start := l.index
	if !l.ConsumeSpecificString("\\u") {
		return 0, ErrMalformedUnicodeEscape
	}

	if l.NextIs('{') {
		cp, err := l.decodeBracedCodePoint()
		if err != nil {
			l.index = start
		}
		return cp, err
	}

	cp, err := l.decodeFixedCodePoint()
	if err != nil {
		l.index = start
		return 0, err
	}

	if !combineSurrogatePairs || !isHighSurrogate(cp) {
		return cp, nil
	}

	if !l.ConsumeSpecificString("\\u") {
		return cp, nil
	}
	low, err := l.decodeFixedCodePoint()
	if err != nil || !isLowSurrogate(low) {
		l.index -= 2
		if err == nil {
			l.index -= 4
		}
		return cp, nil
	}
	return (cp-0xD800)<<10 + (low - 0xDC00) + 0x10000, nil
}

func (l *Lexer) decodeBracedCodePoint() (rune, error) {
	l.index++ // {
	digits := l.ConsumeWhile(chars.Byte(chars.IsASCIIHexDigit))
	if digits == "" || !l.ConsumeSpecific('}') {
		return 0, ErrMalformedUnicodeEscape
	}
	var cp rune
	for i := 0; i < len(digits); i++ {
		cp = cp<<4 | rune(chars.ParseASCIIHexDigit(rune(digits[i])))
		if !chars.IsUnicode(cp) {
			return 0, ErrUnicodeEscapeOverflow
		}
	}
	return cp, nil
}

func (l *Lexer) decodeFixedCodePoint() (rune, error) {
	if l.TellRemaining() < 4 {
		return 0, ErrMalformedUnicodeEscape
	}
	var cp rune
	for i := 0; i < 4; i++ {
		b := rune(l.input[l.index+i])
		if !chars.IsASCIIHexDigit(b) {
			return 0, ErrMalformedUnicodeEscape
		}
		cp = cp<<4 | rune(chars.ParseASCIIHexDigit(b))
	}
	l.index += 4
	return cp, nil
}

func isHighSurrogate(cp rune) bool { return cp >= 0xD800 && cp <= 0xDBFF }

func isLowSurrogate(cp rune) bool { return cp >= 0xDC00 && cp <= 0xDFFF }
