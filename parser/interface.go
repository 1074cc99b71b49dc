package parser

import (
	"github.com/teranos/idlc/ast"
)

// parseInterface reads "Name [: Parent] { members };" after the interface keyword.
func (p *Parser) parseInterface(attrs ast.ExtendedAttributes) error {
	start := p.lexer.Tell()
	if p.sawInterface {
		return p.errorAt(KindSemantic, start, "Only one interface may be declared per file; move it to its own file and import it.")
	}
	p.sawInterface = true

	name, err := p.parseIdentifier("an interface name")
	if err != nil {
		return err
	}
	p.iface.Name = name
	if attrs != nil {
		p.iface.ExtendedAttributes = attrs
	}

	p.skipWhitespace()
	if p.lexer.ConsumeSpecific(':') {
		parent, err := p.parseIdentifier("a parent interface name")
		if err != nil {
			return err
		}
		p.iface.ParentName = parent
	}

	return p.parseInterfaceBody(p.iface)
}

// parseMixin reads "Name { members };" after "interface mixin".
func (p *Parser) parseMixin(attrs ast.ExtendedAttributes) error {
	start := p.lexer.Tell()
	name, err := p.parseIdentifier("a mixin name")
	if err != nil {
		return err
	}

	p.skipWhitespace()
	if p.lexer.NextIs(':') {
		return p.errorf(KindSemantic, "Mixin interfaces cannot have a parent.")
	}

	mixin := ast.NewInterface()
	mixin.Name = name
	mixin.IsMixin = true
	mixin.ModuleOwnPath = p.filename
	if attrs != nil {
		mixin.ExtendedAttributes = attrs
	}
	if err := p.parseInterfaceBody(mixin); err != nil {
		return err
	}

	if owner, ok := p.iface.Mixin(name); ok {
		return p.errorAt(KindSemantic, start, "Mixin '"+name+"' was already defined in '"+owner.ModuleOwnPath+"'.")
	}
	p.iface.Mixins[name] = p.session.Arena().AddMixin(mixin)
	return nil
}

func (p *Parser) parseInterfaceBody(target *ast.Interface) error {
	if err := p.expect('{'); err != nil {
		return err
	}

	for {
		p.skipWhitespace()
		if p.lexer.IsEOF() {
			return p.errorf(KindSyntax, "Unexpected end of input in the body of '%s'.", target.Name)
		}
		if p.lexer.ConsumeSpecific('}') {
			return p.expect(';')
		}

		var attrs ast.ExtendedAttributes
		if p.lexer.NextIs('[') {
			var err error
			if attrs, err = p.parseExtendedAttributes(); err != nil {
				return err
			}
			p.skipWhitespace()
		}
		if attrs.Has("Unscopable") {
			target.HasUnscopableMember = true
		}

		if err := p.parseMember(target, attrs); err != nil {
			return err
		}
	}
}

func (p *Parser) parseMember(target *ast.Interface, attrs ast.ExtendedAttributes) error {
	start := p.lexer.Tell()

	switch {
	case p.consumeKeyword("constructor"):
		if target.IsMixin {
			return p.errorAt(KindSemantic, start, "Mixin interfaces cannot declare constructors.")
		}
		return p.parseConstructor(target)
	case p.consumeKeyword("const"):
		return p.parseConstant(target)
	case p.consumeKeyword("stringifier"):
		return p.parseStringifier(target, attrs)
	case p.consumeKeyword("iterable"):
		if target.IsMixin {
			return p.errorAt(KindSemantic, start, "Mixin interfaces cannot be iterable.")
		}
		return p.parseIterable(target)
	case p.nextIsKeyword("readonly") || p.nextIsKeyword("attribute"):
		attr, err := p.parseAttribute(attrs)
		if err != nil {
			return err
		}
		target.Attributes = append(target.Attributes, attr)
		return nil
	case p.nextIsKeyword("getter") || p.nextIsKeyword("setter") || p.nextIsKeyword("deleter"):
		if target.IsMixin {
			return p.errorAt(KindSemantic, start, "Mixin interfaces cannot declare special operations.")
		}
		kind := specialKind(p.lexer.ConsumeWhile(isLowerAlpha))
		return p.parseSpecialOperation(target, kind, attrs)
	case p.consumeKeyword("static"):
		p.skipWhitespace()
		if p.nextIsKeyword("readonly") || p.nextIsKeyword("attribute") {
			return p.errorAt(KindSemantic, start, "Static attributes are not supported.")
		}
		fn, err := p.parseFunction(attrs, true)
		if err != nil {
			return err
		}
		target.StaticFunctions = append(target.StaticFunctions, fn)
		return nil
	}

	fn, err := p.parseFunction(attrs, false)
	if err != nil {
		return err
	}
	target.Functions = append(target.Functions, fn)
	return nil
}

func isLowerAlpha(b byte) bool { return b >= 'a' && b <= 'z' }

// parseConstructor reads "(params);" after the constructor keyword.
func (p *Parser) parseConstructor(target *ast.Interface) error {
	params, err := p.parseParameterList()
	if err != nil {
		return err
	}
	if err := p.expect(';'); err != nil {
		return err
	}
	target.Constructors = append(target.Constructors, ast.Constructor{Name: target.Name, Parameters: params})
	return nil
}

// parseConstant reads "Type NAME = value;" after the const keyword.
func (p *Parser) parseConstant(target *ast.Interface) error {
	typ, err := p.parseType()
	if err != nil {
		return err
	}
	name, err := p.parseIdentifier("a constant name")
	if err != nil {
		return err
	}
	if err := p.expect('='); err != nil {
		return err
	}
	p.skipWhitespace()
	value := trimmed(p.lexer.ConsumeUntilByte(';'))
	if value == "" {
		return p.unexpected("a constant value")
	}
	if err := p.expect(';'); err != nil {
		return err
	}
	target.Constants = append(target.Constants, ast.Constant{Type: typ, Name: name, Value: value})
	return nil
}

// parseAttribute reads "[readonly] attribute Type name;".
func (p *Parser) parseAttribute(attrs ast.ExtendedAttributes) (ast.Attribute, error) {
	readOnly := p.consumeKeyword("readonly")
	p.skipWhitespace()
	if !p.consumeKeyword("attribute") {
		return ast.Attribute{}, p.unexpected("'attribute'")
	}
	typ, err := p.parseType()
	if err != nil {
		return ast.Attribute{}, err
	}
	name, err := p.parseIdentifier("an attribute name")
	if err != nil {
		return ast.Attribute{}, err
	}
	if err := p.expect(';'); err != nil {
		return ast.Attribute{}, err
	}
	return ast.NewAttribute(name, typ, readOnly, attrs), nil
}

// parseStringifier reads either ";" or an attribute after the stringifier keyword.
func (p *Parser) parseStringifier(target *ast.Interface, attrs ast.ExtendedAttributes) error {
	start := p.lexer.Tell()
	if target.HasStringifier {
		return p.errorAt(KindSemantic, start, "An interface may only have one stringifier.")
	}
	target.HasStringifier = true

	p.skipWhitespace()
	if p.lexer.ConsumeSpecific(';') {
		return nil
	}
	if !p.nextIsKeyword("readonly") && !p.nextIsKeyword("attribute") {
		return p.unexpected("';' or an attribute after 'stringifier'")
	}

	attr, err := p.parseAttribute(attrs)
	if err != nil {
		return err
	}
	if !ast.IsString(attr.Type) {
		return p.errorAt(KindSemantic, start, "Stringifier attributes must have a string type, got '"+attr.Type.String()+"'.")
	}
	name := attr.Name
	target.StringifierAttribute = &name
	target.Attributes = append(target.Attributes, attr)
	return nil
}

// parseFunction reads "ReturnType name(params);".
func (p *Parser) parseFunction(attrs ast.ExtendedAttributes, static bool) (ast.Function, error) {
	returnType, err := p.parseType()
	if err != nil {
		return ast.Function{}, err
	}
	name, err := p.parseIdentifier("an operation name")
	if err != nil {
		return ast.Function{}, err
	}
	params, err := p.parseParameterList()
	if err != nil {
		return ast.Function{}, err
	}
	if err := p.expect(';'); err != nil {
		return ast.Function{}, err
	}
	return ast.Function{
		ReturnType:         returnType,
		Name:               name,
		Parameters:         params,
		ExtendedAttributes: attrs,
		Static:             static,
	}, nil
}

// parseParameterList reads "(a, optional b = 1, c...)".
func (p *Parser) parseParameterList() ([]ast.Parameter, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}

	var params []ast.Parameter
	p.skipWhitespace()
	if p.lexer.ConsumeSpecific(')') {
		return params, nil
	}

	for {
		start := p.lexer.Tell()
		param, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		if n := len(params); n > 0 && params[n-1].Variadic {
			return nil, p.errorAt(KindSemantic, start, "A variadic parameter must be the last parameter.")
		}
		params = append(params, param)

		p.skipWhitespace()
		if p.lexer.ConsumeSpecific(',') {
			continue
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return params, nil
	}
}

func (p *Parser) parseParameter() (ast.Parameter, error) {
	var param ast.Parameter

	p.skipWhitespace()
	if p.lexer.NextIs('[') {
		attrs, err := p.parseExtendedAttributes()
		if err != nil {
			return param, err
		}
		param.ExtendedAttributes = attrs
		p.skipWhitespace()
	}

	param.Optional = p.consumeKeyword("optional")
	typ, err := p.parseType()
	if err != nil {
		return param, err
	}
	param.Type = typ

	p.skipWhitespace()
	if p.lexer.ConsumeSpecificString("...") {
		if param.Optional {
			return param, p.errorf(KindSemantic, "A parameter cannot be both optional and variadic.")
		}
		param.Variadic = true
	}

	if param.Name, err = p.parseIdentifier("a parameter name"); err != nil {
		return param, err
	}

	p.skipWhitespace()
	if p.lexer.NextIs('=') {
		if !param.Optional {
			return param, p.errorf(KindSemantic, "Only optional parameters can have default values; '%s' is not optional.", param.Name)
		}
		p.lexer.Ignore(1)
		value, err := p.parseDefaultValue()
		if err != nil {
			return param, err
		}
		param.Default = &value
	}
	return param, nil
}
