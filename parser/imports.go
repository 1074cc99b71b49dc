package parser

import (
	"path/filepath"
	"sort"

	"github.com/teranos/idlc/chars"
	"github.com/teranos/idlc/errors"
	"github.com/teranos/idlc/logger"
)

// parseImports reads the leading "#import <path>" lines and parses each new
// module into the session before the rest of this file.
func (p *Parser) parseImports() error {
	for {
		p.skipWhitespace()
		if !p.lexer.NextIsString("#import") {
			return nil
		}
		start := p.lexer.Tell()
		p.lexer.Ignore(len("#import"))
		p.lexer.IgnoreWhile(chars.Byte(chars.IsASCIIBlank))

		var closer byte
		switch {
		case p.lexer.ConsumeSpecific('<'):
			closer = '>'
		case p.lexer.ConsumeSpecific('"'):
			closer = '"'
		default:
			return p.unexpected("'<' or '\"' after #import")
		}
		path := p.lexer.ConsumeUntil(func(b byte) bool { return b == closer || b == '\n' })
		if !p.lexer.ConsumeSpecific(closer) || trimmed(path) == "" {
			return p.errorAt(KindSyntax, start, "Malformed #import directive.")
		}
		if rest := trimmed(p.lexer.ConsumeLine()); rest != "" && !isComment(rest) {
			return p.errorAt(KindSyntax, start, "Unexpected '"+rest+"' after #import directive.")
		}

		if err := p.importModule(trimmed(path), start); err != nil {
			return err
		}
	}
}

func isComment(s string) bool {
	return len(s) >= 2 && s[0] == '/' && (s[1] == '/' || s[1] == '*')
}

// resolveImport looks for path next to the importing file, then under the
// session's import base.
func (p *Parser) resolveImport(path string) (string, bool) {
	var candidates []string
	if filepath.IsAbs(path) {
		candidates = append(candidates, path)
	} else {
		candidates = append(candidates, filepath.Join(filepath.Dir(p.filename), path))
		if base := p.session.ImportBase(); base != "" {
			candidates = append(candidates, filepath.Join(base, path))
		}
	}
	for _, candidate := range candidates {
		if p.session.exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (p *Parser) importModule(path string, offset int) error {
	resolved, ok := p.resolveImport(path)
	if !ok {
		return p.errorAt(KindImport, offset, "Could not find import file '"+path+"'.")
	}
	canonical, err := p.session.Canonicalize(resolved)
	if err != nil {
		return p.errorAt(KindImport, offset, err.Error())
	}

	if !p.session.MarkImported(canonical) {
		// Already claimed in this session, including any module still on the
		// import stack. Its declarations reach us through that parse.
		p.log.Debugw("Skipping module already imported", logger.FieldImport, canonical)
		return nil
	}

	source, err := p.session.ReadSource(canonical)
	if err != nil {
		return p.errorAt(KindImport, offset, errors.UnwrapAll(err).Error())
	}

	p.log.Debugw("Importing module", logger.FieldImport, canonical)
	sub := New(p.session, canonical, source)
	if _, err := sub.Parse(); err != nil {
		return err
	}
	p.imports = append(p.imports, importRecord{module: sub.ModuleID(), path: canonical, offset: offset})
	p.iface.Imports = append(p.iface.Imports, sub.ModuleID())
	return nil
}

// mergeImports copies dictionaries, enums and mixins from the direct imports.
// Declarations of this module take precedence over imported ones with the
// same name, except mixins, which may only be defined once.
func (p *Parser) mergeImports() error {
	arena := p.session.Arena()
	for _, rec := range p.imports {
		imported := arena.Module(rec.module)

		p.iface.ImportedPaths[imported.ModuleOwnPath] = true
		for path := range imported.ImportedPaths {
			p.iface.ImportedPaths[path] = true
		}

		for name, dict := range imported.Dictionaries {
			if _, exists := p.iface.Dictionaries[name]; !exists {
				copied := dict.Clone()
				copied.IsOriginalDefinition = false
				p.iface.Dictionaries[name] = copied
			}
		}
		for name, enum := range imported.Enums {
			if _, exists := p.iface.Enums[name]; !exists {
				copied := enum.Clone()
				copied.IsOriginalDefinition = false
				p.iface.Enums[name] = copied
			}
		}
		for _, name := range imported.SortedMixinNames() {
			if id, exists := p.iface.Mixins[name]; exists && id == imported.Mixins[name] {
				continue
			}
			if owner, exists := p.iface.Mixin(name); exists {
				return p.errorAt(KindImport, rec.offset, "Mixin '"+name+"' was already defined in '"+owner.ModuleOwnPath+"'.")
			}
			p.iface.Mixins[name] = imported.Mixins[name]
		}

		for _, includer := range sortedKeys(imported.IncludedMixins) {
			for _, mixin := range imported.IncludedMixins[includer] {
				p.addInclude(includer, mixin, rec.offset)
			}
		}
	}
	return nil
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
