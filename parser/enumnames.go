package parser

import (
	"strings"

	"github.com/teranos/idlc/chars"
	"github.com/teranos/idlc/lexer"
)

// translateEnumValues maps each enumeration literal to an identifier.
// Spaces, underscores and hyphens separate words and are dropped; every
// alphanumeric word is title-cased; any other run of punctuation becomes a
// single '_'. An empty result becomes "Empty" and a leading digit gets a '_'
// prefix. Collisions are resolved in declaration order by appending '_'.
func translateEnumValues(values []string) map[string]string {
	names := make(map[string]string, len(values))
	used := make(map[string]bool, len(values))

	isSeparator := lexer.IsAnyOf(" _-")
	isAlnum := chars.Byte(chars.IsASCIIAlphanumeric)

	for _, value := range values {
		var sb strings.Builder
		l := lexer.New(value)
		for !l.IsEOF() {
			switch {
			case l.NextIsFunc(isSeparator):
				l.Ignore(1)
			case l.NextIsFunc(isAlnum):
				word := l.ConsumeWhile(isAlnum)
				sb.WriteRune(chars.ToASCIIUppercase(rune(word[0])))
				sb.WriteString(word[1:])
			default:
				l.ConsumeUntil(func(b byte) bool { return isAlnum(b) || isSeparator(b) })
				sb.WriteByte('_')
			}
		}

		name := sb.String()
		switch {
		case name == "":
			name = "Empty"
		case chars.IsASCIIDigit(rune(name[0])):
			name = "_" + name
		}
		for used[name] {
			name += "_"
		}
		used[name] = true
		names[value] = name
	}
	return names
}
