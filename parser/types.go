package parser

import (
	"strings"

	"github.com/teranos/idlc/ast"
	"github.com/teranos/idlc/lexer"
)

// parseExtendedAttributes reads "[A, B=c, D=(e, f)]" starting at the '['.
func (p *Parser) parseExtendedAttributes() (ast.ExtendedAttributes, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	attrs := ast.ExtendedAttributes{}
	for {
		p.skipWhitespace()
		if p.lexer.IsEOF() {
			return nil, p.errorf(KindSyntax, "Unterminated extended attribute list.")
		}
		if p.lexer.ConsumeSpecific(']') {
			return attrs, nil
		}

		name, err := p.parseIdentifier("an extended attribute name")
		if err != nil {
			return nil, err
		}
		p.skipWhitespace()

		value := ""
		if p.lexer.ConsumeSpecific('=') {
			p.skipWhitespace()
			if p.lexer.ConsumeSpecific('(') {
				inner := p.lexer.ConsumeUntilByte(')')
				if !p.lexer.ConsumeSpecific(')') {
					return nil, p.errorf(KindSyntax, "Unterminated extended attribute value list.")
				}
				value = "(" + strings.TrimSpace(inner) + ")"
			} else {
				value = strings.TrimSpace(p.lexer.ConsumeUntil(lexer.IsAnyOf("],")))
			}
			if value == "" || value == "()" {
				return nil, p.errorf(KindSyntax, "Extended attribute '%s' is missing a value.", name)
			}
		}
		attrs[name] = value

		p.skipWhitespace()
		if !p.lexer.ConsumeSpecific(',') && !p.lexer.NextIs(']') && !p.lexer.IsEOF() {
			return nil, p.unexpected("',' or ']'")
		}
	}
}

// parseType reads one IDL type: an optionally annotated, optionally nullable
// plain, parameterized or union type.
func (p *Parser) parseType() (ast.Type, error) {
	p.skipWhitespace()

	if p.lexer.NextIs('[') {
		attrs, err := p.parseExtendedAttributes()
		if err != nil {
			return nil, err
		}
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.AnnotatedType{ExtendedAttributes: attrs, Inner: inner}, nil
	}

	if p.lexer.NextIs('(') {
		return p.parseUnionType()
	}

	name, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}

	var params []ast.Type
	p.skipWhitespace()
	if p.lexer.ConsumeSpecific('<') {
		for {
			param, err := p.parseType()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			p.skipWhitespace()
			if p.lexer.ConsumeSpecific(',') {
				continue
			}
			if err := p.expect('>'); err != nil {
				return nil, err
			}
			break
		}
	}

	nullable := p.consumeNullable()
	if params != nil {
		return &ast.ParameterizedType{Name: name, Nullable: nullable, Parameters: params}, nil
	}
	return &ast.PlainType{Name: name, Nullable: nullable}, nil
}

func (p *Parser) parseUnionType() (ast.Type, error) {
	start := p.lexer.Tell()
	if err := p.expect('('); err != nil {
		return nil, err
	}

	var members []ast.Type
	for {
		member, err := p.parseType()
		if err != nil {
			return nil, err
		}
		members = append(members, member)
		p.skipWhitespace()
		if !p.consumeKeyword("or") {
			break
		}
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	if len(members) < 2 {
		return nil, p.errorAt(KindSyntax, start, "Union types must have at least two member types.")
	}
	return &ast.UnionType{Members: members, Nullable: p.consumeNullable()}, nil
}

// parseTypeName reads a type name, folding the multi-word integer and
// floating-point names into one.
func (p *Parser) parseTypeName() (string, error) {
	first, err := p.parseIdentifier("a type")
	if err != nil {
		return "", err
	}

	switch first {
	case "unsigned":
		next, err := p.parseIdentifier("'short' or 'long' after 'unsigned'")
		if err != nil {
			return "", err
		}
		if next != "short" && next != "long" {
			return "", p.errorf(KindSyntax, "Expected 'short' or 'long' after 'unsigned', got '%s'.", next)
		}
		name := "unsigned " + next
		if next == "long" && p.consumeFollowingKeyword("long") {
			name += " long"
		}
		return name, nil
	case "unrestricted":
		next, err := p.parseIdentifier("'float' or 'double' after 'unrestricted'")
		if err != nil {
			return "", err
		}
		if next != "float" && next != "double" {
			return "", p.errorf(KindSyntax, "Expected 'float' or 'double' after 'unrestricted', got '%s'.", next)
		}
		return "unrestricted " + next, nil
	case "long":
		if p.consumeFollowingKeyword("long") {
			return "long long", nil
		}
	}
	return first, nil
}

// consumeFollowingKeyword consumes whitespace and keyword together, or nothing.
func (p *Parser) consumeFollowingKeyword(keyword string) bool {
	start := p.lexer.Tell()
	p.skipWhitespace()
	if p.consumeKeyword(keyword) {
		return true
	}
	p.lexer.Retreat(p.lexer.Tell() - start)
	return false
}

func (p *Parser) consumeNullable() bool {
	p.skipWhitespace()
	return p.lexer.ConsumeSpecific('?')
}

// parseDefaultValue reads the literal after '=' in a parameter or dictionary member.
func (p *Parser) parseDefaultValue() (string, error) {
	p.skipWhitespace()
	switch {
	case p.lexer.NextIsFunc(lexer.IsQuote):
		quote := p.lexer.Peek(0)
		interior, ok := p.lexer.ConsumeQuotedString('\\')
		if !ok {
			return "", p.errorf(KindLexical, "Unterminated string literal.")
		}
		return string(quote) + interior + string(quote), nil
	case p.lexer.ConsumeSpecific('['):
		if err := p.expect(']'); err != nil {
			return "", err
		}
		return "[]", nil
	case p.lexer.ConsumeSpecific('{'):
		if err := p.expect('}'); err != nil {
			return "", err
		}
		return "{}", nil
	}

	value := strings.TrimSpace(p.lexer.ConsumeUntil(lexer.IsAnyOf(",;) \t\r\n")))
	if value == "" {
		return "", p.unexpected("a default value")
	}
	return value, nil
}
