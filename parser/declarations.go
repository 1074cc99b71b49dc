package parser

import (
	"github.com/teranos/idlc/ast"
	"github.com/teranos/idlc/lexer"
)

// parseDictionary reads "Name [: Parent] { members };" after the dictionary keyword.
func (p *Parser) parseDictionary() error {
	start := p.lexer.Tell()
	name, err := p.parseIdentifier("a dictionary name")
	if err != nil {
		return err
	}
	if _, exists := p.iface.Dictionaries[name]; exists {
		return p.errorAt(KindSemantic, start, "Dictionary '"+name+"' is already defined.")
	}

	dict := &ast.Dict{Name: name, IsOriginalDefinition: true}
	p.skipWhitespace()
	if p.lexer.ConsumeSpecific(':') {
		if dict.ParentName, err = p.parseIdentifier("a parent dictionary name"); err != nil {
			return err
		}
	}

	if err := p.expect('{'); err != nil {
		return err
	}
	seen := map[string]bool{}
	for {
		p.skipWhitespace()
		if p.lexer.IsEOF() {
			return p.errorf(KindSyntax, "Unexpected end of input in dictionary '%s'.", name)
		}
		if p.lexer.ConsumeSpecific('}') {
			break
		}

		memberStart := p.lexer.Tell()
		member, err := p.parseDictMember()
		if err != nil {
			return err
		}
		if seen[member.Name] {
			return p.errorAt(KindSemantic, memberStart, "Dictionary member '"+member.Name+"' is already defined.")
		}
		seen[member.Name] = true
		dict.Members = append(dict.Members, member)
	}
	if err := p.expect(';'); err != nil {
		return err
	}

	dict.SortMembers()
	p.iface.Dictionaries[name] = dict
	return nil
}

// parseDictMember reads "[ext] [required] Type name [= default];", accepting
// the extended attributes and the required keyword in either order.
func (p *Parser) parseDictMember() (ast.DictMember, error) {
	var member ast.DictMember
	start := p.lexer.Tell()

	for {
		p.skipWhitespace()
		if p.lexer.NextIs('[') && member.ExtendedAttributes == nil {
			attrs, err := p.parseExtendedAttributes()
			if err != nil {
				return member, err
			}
			member.ExtendedAttributes = attrs
			continue
		}
		if !member.Required && p.consumeKeyword("required") {
			member.Required = true
			continue
		}
		break
	}

	typ, err := p.parseType()
	if err != nil {
		return member, err
	}
	member.Type = typ
	if member.Name, err = p.parseIdentifier("a dictionary member name"); err != nil {
		return member, err
	}

	p.skipWhitespace()
	if p.lexer.ConsumeSpecific('=') {
		if member.Required {
			return member, p.errorAt(KindSemantic, start, "Dictionary member '"+member.Name+"' cannot be required and have a default value.")
		}
		value, err := p.parseDefaultValue()
		if err != nil {
			return member, err
		}
		member.Default = &value
	}
	return member, p.expect(';')
}

// parseEnum reads `Name { "a", "b" };` after the enum keyword.
func (p *Parser) parseEnum() error {
	start := p.lexer.Tell()
	name, err := p.parseIdentifier("an enumeration name")
	if err != nil {
		return err
	}
	if _, exists := p.iface.Enums[name]; exists {
		return p.errorAt(KindSemantic, start, "Enumeration '"+name+"' is already defined.")
	}

	enum := &ast.Enum{
		Name:                 name,
		TranslatedNames:      map[string]string{},
		IsOriginalDefinition: true,
	}
	seen := map[string]bool{}

	if err := p.expect('{'); err != nil {
		return err
	}
	for {
		p.skipWhitespace()
		if p.lexer.ConsumeSpecific('}') {
			break
		}
		if !p.lexer.NextIsFunc(lexer.IsQuote) {
			return p.unexpected("an enumeration value string")
		}

		valueStart := p.lexer.Tell()
		value, ok := p.lexer.ConsumeQuotedString(0)
		if !ok {
			return p.errorf(KindLexical, "Unterminated string literal.")
		}
		if seen[value] {
			return p.errorAt(KindSemantic, valueStart, "Enumeration value '"+value+"' is already defined.")
		}
		seen[value] = true
		enum.Values = append(enum.Values, value)

		p.skipWhitespace()
		if !p.lexer.ConsumeSpecific(',') && !p.lexer.NextIs('}') {
			return p.unexpected("',' or '}'")
		}
	}
	if err := p.expect(';'); err != nil {
		return err
	}
	if len(enum.Values) == 0 {
		return p.errorAt(KindSemantic, start, "Enumeration '"+name+"' must have at least one value.")
	}

	enum.FirstMember = enum.Values[0]
	enum.TranslatedNames = translateEnumValues(enum.Values)
	p.iface.Enums[name] = enum
	return nil
}

var unsupportedDeclarations = map[string]bool{
	"partial":   true,
	"callback":  true,
	"typedef":   true,
	"namespace": true,
}

// parseIncludes reads "Includer includes Mixin;".
func (p *Parser) parseIncludes() error {
	start := p.lexer.Tell()
	includer, err := p.parseIdentifier("a declaration")
	if err != nil {
		return err
	}
	if unsupportedDeclarations[includer] {
		return p.errorAt(KindSyntax, start, "'"+includer+"' declarations are not supported.")
	}

	p.skipWhitespace()
	if !p.consumeKeyword("includes") {
		p.lexer.Retreat(p.lexer.Tell() - start)
		return p.unexpected("a declaration")
	}
	mixin, err := p.parseIdentifier("a mixin name")
	if err != nil {
		return err
	}
	if err := p.expect(';'); err != nil {
		return err
	}

	p.addInclude(includer, mixin, start)
	return nil
}

// addInclude records that includer includes mixin, once, keeping the first position.
func (p *Parser) addInclude(includer, mixin string, offset int) {
	for _, existing := range p.iface.IncludedMixins[includer] {
		if existing == mixin {
			return
		}
	}
	p.iface.IncludedMixins[includer] = append(p.iface.IncludedMixins[includer], mixin)
	p.includeOffsets[includer+"\x00"+mixin] = offset
}
