package codegen

import (
	"strings"

	"github.com/teranos/idlc/chars"
)

// reservedWords are C++ keywords and names the generated code cannot take
// over as identifiers.
var reservedWords = []string{
	"alignas", "alignof", "and", "asm", "auto", "bool", "break", "case",
	"catch", "char", "class", "const", "constexpr", "continue", "decltype",
	"default", "delete", "do", "double", "else", "enum", "explicit", "export",
	"extern", "false", "float", "for", "friend", "goto", "if", "inline", "int",
	"long", "mutable", "namespace", "new", "noexcept", "not", "nullptr",
	"operator", "or", "private", "protected", "public", "register", "return",
	"short", "signed", "sizeof", "static", "struct", "switch", "template",
	"this", "throw", "true", "try", "typedef", "typeid", "typename", "union",
	"unsigned", "using", "virtual", "void", "volatile", "while", "xor",
}

// Namer turns IDL names into identifiers that are valid in generated code.
type Namer struct {
	reserved map[string]bool
}

// NewNamer returns a Namer over the builtin reserved words plus extra.
func NewNamer(extra ...string) *Namer {
	n := &Namer{reserved: make(map[string]bool, len(reservedWords)+len(extra))}
	for _, w := range reservedWords {
		n.reserved[w] = true
	}
	for _, w := range extra {
		if w = strings.TrimSpace(w); w != "" {
			n.reserved[w] = true
		}
	}
	return n
}

// Identifier replaces characters that cannot appear in an identifier with '_'
// and appends '_' to reserved words.
func (n *Namer) Identifier(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 1)
	for i, r := range name {
		switch {
		case r == '_' || chars.IsASCIIAlpha(r):
			b.WriteRune(r)
		case chars.IsASCIIDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return "_"
	}
	if n.reserved[out] {
		out += "_"
	}
	return out
}

// IsReserved reports whether name collides with a reserved word.
func (n *Namer) IsReserved(name string) bool {
	return n.reserved[name]
}

var defaultNamer = NewNamer()

// Identifier applies the builtin reserved-word list.
func Identifier(name string) string {
	return defaultNamer.Identifier(name)
}
