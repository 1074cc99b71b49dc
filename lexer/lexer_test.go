package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/idlc/chars"
	"github.com/teranos/idlc/errors"
)

func TestPeekPastEnd(t *testing.T) {
	l := New("ab")
	assert.Equal(t, byte('a'), l.Peek(0))
	assert.Equal(t, byte('b'), l.Peek(1))
	assert.Equal(t, byte(0), l.Peek(2))
	assert.Equal(t, byte(0), l.Peek(100))
}

func TestConsumeAtEOFPanics(t *testing.T) {
	l := New("")
	assert.True(t, l.IsEOF())
	assert.Panics(t, func() { l.Consume() })
}

func TestConsumeSpecific(t *testing.T) {
	l := New("interface Foo")

	assert.False(t, l.ConsumeSpecificString("interfaces"))
	assert.Equal(t, 0, l.Tell())
	assert.True(t, l.ConsumeSpecificString("interface"))
	assert.Equal(t, 9, l.Tell())
	assert.False(t, l.ConsumeSpecific('F'))
	assert.True(t, l.ConsumeSpecificFunc(chars.Byte(chars.IsASCIISpace)))
	assert.True(t, l.ConsumeSpecific('F'))
	assert.Equal(t, "oo", l.Remaining())
	assert.Equal(t, 2, l.TellRemaining())
}

func TestConsumeWhileUntil(t *testing.T) {
	l := New("abc123;rest")

	assert.Equal(t, "abc", l.ConsumeWhile(chars.Byte(chars.IsASCIIAlpha)))
	assert.Equal(t, "123", l.ConsumeUntilByte(';'))
	assert.True(t, l.NextIs(';'), "until must not consume the terminator")
	assert.Equal(t, "", l.ConsumeUntilByte(';'))

	l.Retreat(3)
	assert.Equal(t, "123", l.ConsumeUntilString(";r"))
	assert.Equal(t, ";rest", l.ConsumeAll())
	assert.True(t, l.IsEOF())
	assert.Equal(t, "", l.ConsumeUntilByte('x'))
}

func TestIgnoreUntilConsumesStop(t *testing.T) {
	l := New("// comment\nnext")
	l.IgnoreUntilByte('\n')
	assert.Equal(t, "next", l.Remaining())

	l = New("no newline")
	l.IgnoreUntilByte('\n')
	assert.True(t, l.IsEOF())
}

func TestConsumeLine(t *testing.T) {
	l := New("one\r\ntwo\nthree")
	assert.Equal(t, "one", l.ConsumeLine())
	assert.Equal(t, "two", l.ConsumeLine())
	assert.Equal(t, "three", l.ConsumeLine())
	assert.True(t, l.IsEOF())
}

func TestRetreatPastStartPanics(t *testing.T) {
	l := New("abc")
	l.ConsumeN(2)
	assert.Panics(t, func() { l.Retreat(3) })
}

func TestConsumeQuotedString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		escape   byte
		want     string
		ok       bool
		position int
	}{
		{"double", `"hello" tail`, 0, "hello", true, 7},
		{"single", `'x'`, 0, "x", true, 3},
		{"escaped quote", `"a\"b"`, '\\', `a\"b`, true, 6},
		{"unterminated", `"abc`, 0, "", false, 0},
		{"unterminated with escape", `"abc\"`, '\\', "", false, 0},
		{"not a quote", `abc`, 0, "", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input)
			got, ok := l.ConsumeQuotedString(tt.escape)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.position, l.Tell())
		})
	}
}

func TestConsumeAndUnescapeString(t *testing.T) {
	l := New(`"tab\there\nnew \q"`)
	got, ok := l.ConsumeAndUnescapeString('\\')
	require.True(t, ok)
	assert.Equal(t, "tab\there\nnew q", got)
}

func TestConsumeEscapedCodePoint(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		combine bool
		want    rune
		rest    string
		err     error
	}{
		{"braced", `\u{1F600}x`, false, 0x1F600, "x", nil},
		{"fixed", `\u00E9`, false, 0xE9, "", nil},
		{"pair combined", `\uD83D\uDE00!`, true, 0x1F600, "!", nil},
		{"pair not combined", `\uD83D\uDE00`, false, 0xD83D, `\uDE00`, nil},
		{"high then non-low retreats", `\uD83DA`, true, 0xD83D, `A`, nil},
		{"high then garbage", `\uD83D\uZZZZ`, true, 0xD83D, `\uZZZZ`, nil},
		{"overflow", `\u{110000}`, false, 0, `\u{110000}`, ErrUnicodeEscapeOverflow},
		{"malformed braces", `\u{}`, false, 0, `\u{}`, ErrMalformedUnicodeEscape},
		{"short fixed", `\u12`, false, 0, `\u12`, ErrMalformedUnicodeEscape},
		{"no escape", `abc`, false, 0, `abc`, ErrMalformedUnicodeEscape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input)
			cp, err := l.ConsumeEscapedCodePoint(tt.combine)
			if tt.err != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, cp)
			}
			assert.Equal(t, tt.rest, l.Remaining())
		})
	}
}

func TestPredicates(t *testing.T) {
	sep := IsAnyOf("],=")
	assert.True(t, sep(','))
	assert.False(t, sep('a'))
	assert.True(t, IsPathSeparator('/'))
	assert.True(t, IsPathSeparator('\\'))
	assert.True(t, IsQuote('"'))
	assert.True(t, IsIdentifierByte('_'))
	assert.False(t, IsIdentifierByte('-'))
}
