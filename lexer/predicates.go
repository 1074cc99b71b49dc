package lexer

import "strings"

// IsAnyOf returns a predicate accepting any byte in set.
func IsAnyOf(set string) func(byte) bool {
	return func(b byte) bool { return strings.IndexByte(set, b) >= 0 }
}

func IsPathSeparator(b byte) bool { return b == '/' || b == '\\' }

func IsQuote(b byte) bool { return b == '\'' || b == '"' }

// IsIdentifierByte accepts the bytes an IDL identifier is made of.
func IsIdentifierByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
