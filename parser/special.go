package parser

import (
	"fmt"

	"github.com/teranos/idlc/ast"
	"github.com/teranos/idlc/lexer"
)

type specialKind string

const (
	specialGetter  specialKind = "getter"
	specialSetter  specialKind = "setter"
	specialDeleter specialKind = "deleter"
)

func (k specialKind) arity() int {
	if k == specialSetter {
		return 2
	}
	return 1
}

// parseSpecialOperation reads the rest of a getter, setter or deleter and
// installs it as the interface's named or indexed property handler.
func (p *Parser) parseSpecialOperation(target *ast.Interface, kind specialKind, attrs ast.ExtendedAttributes) error {
	start := p.lexer.Tell()

	returnType, err := p.parseType()
	if err != nil {
		return err
	}
	p.skipWhitespace()
	name := p.lexer.ConsumeWhile(lexer.IsIdentifierByte)
	params, err := p.parseParameterList()
	if err != nil {
		return err
	}
	if err := p.expect(';'); err != nil {
		return err
	}

	fn := &ast.Function{
		ReturnType:         returnType,
		Name:               name,
		Parameters:         params,
		ExtendedAttributes: attrs,
	}

	fail := func(format string, args ...interface{}) error {
		return p.errorAt(KindSemantic, start, fmt.Sprintf(format, args...))
	}

	if len(params) != kind.arity() {
		want := "exactly one parameter"
		if kind.arity() == 2 {
			want = "exactly two parameters"
		}
		return fail("Named/indexed property %ss must have %s, got %d.", kind, want, len(params))
	}

	key := params[0]
	switch {
	case key.Type.IsNullable():
		return fail("Named/indexed property %s's identifier's type must not be nullable.", kind)
	case key.Optional:
		return fail("Named/indexed property %s's identifier must not be optional.", kind)
	case key.Variadic:
		return fail("Named/indexed property %s's identifier must not be variadic.", kind)
	}

	var indexed bool
	switch {
	case ast.IsString(key.Type):
		indexed = false
	case ast.NameOf(key.Type) == "unsigned long":
		indexed = true
	default:
		return fail("Named/indexed property %s's identifier's type must be 'DOMString' or 'unsigned long', got '%s'.", kind, key.Type)
	}

	var slot **ast.Function
	switch {
	case kind == specialGetter && indexed:
		if target.PairIteratorTypes != nil {
			return fail("Interfaces with a pair iterator must not support indexed properties.")
		}
		slot = &target.IndexedPropertyGetter
	case kind == specialGetter:
		slot = &target.NamedPropertyGetter
	case kind == specialSetter && indexed:
		slot = &target.IndexedPropertySetter
	case kind == specialSetter:
		slot = &target.NamedPropertySetter
	case kind == specialDeleter && indexed:
		return fail("Interfaces may only have named property deleters.")
	default:
		slot = &target.NamedPropertyDeleter
	}

	if *slot != nil {
		flavor := "named"
		if indexed {
			flavor = "indexed"
		}
		return fail("An interface may only have one %s property %s.", flavor, kind)
	}
	*slot = fn

	if name != "" {
		target.Functions = append(target.Functions, *fn)
	}
	return nil
}

// parseIterable reads "<V>" or "<K, V>" and ";" after the iterable keyword.
func (p *Parser) parseIterable(target *ast.Interface) error {
	start := p.lexer.Tell()
	if target.ValueIteratorType != nil || target.PairIteratorTypes != nil {
		return p.errorAt(KindSemantic, start, "An interface may only have one iterable declaration.")
	}

	if err := p.expect('<'); err != nil {
		return err
	}
	first, err := p.parseType()
	if err != nil {
		return err
	}

	p.skipWhitespace()
	if p.lexer.ConsumeSpecific(',') {
		second, err := p.parseType()
		if err != nil {
			return err
		}
		if err := p.expect('>'); err != nil {
			return err
		}
		if err := p.expect(';'); err != nil {
			return err
		}
		if target.SupportsIndexedProperties() {
			return p.errorAt(KindSemantic, start, "Interfaces with a pair iterator must not support indexed properties.")
		}
		target.PairIteratorTypes = &[2]ast.Type{first, second}
		return nil
	}

	if err := p.expect('>'); err != nil {
		return err
	}
	if err := p.expect(';'); err != nil {
		return err
	}
	if !target.SupportsIndexedProperties() {
		return p.errorAt(KindSemantic, start, "Interfaces with a value iterator must support indexed properties.")
	}
	target.ValueIteratorType = first
	return nil
}
