package parser

import "github.com/teranos/idlc/logger"

// spliceMixins copies the members of every mixin the interface includes into
// the interface itself, in the order the includes statements appeared.
func (p *Parser) spliceMixins() error {
	if p.iface.Name == "" {
		return nil
	}

	for _, name := range p.iface.IncludedMixins[p.iface.Name] {
		offset := p.includeOffsets[p.iface.Name+"\x00"+name]

		mixin, ok := p.iface.Mixin(name)
		if !ok {
			return p.errorAt(KindSemantic, offset, "Mixin '"+name+"' was never defined.")
		}

		if mixin.HasStringifier {
			if p.iface.HasStringifier {
				return p.errorAt(KindSemantic, offset, "Both interface '"+p.iface.Name+"' and mixin '"+name+"' defined a stringifier.")
			}
			p.iface.HasStringifier = true
			p.iface.StringifierAttribute = mixin.StringifierAttribute
		}
		if mixin.HasUnscopableMember {
			p.iface.HasUnscopableMember = true
		}

		p.iface.Attributes = append(p.iface.Attributes, mixin.Attributes...)
		p.iface.Constants = append(p.iface.Constants, mixin.Constants...)
		p.iface.Functions = append(p.iface.Functions, mixin.Functions...)
		p.iface.StaticFunctions = append(p.iface.StaticFunctions, mixin.StaticFunctions...)

		p.log.Debugw("Included mixin", "mixin", name, logger.FieldInterface, p.iface.Name)
	}
	return nil
}
