// Package parser turns IDL source into a resolved ast.Interface.
//
// Parsing is a single recursive-descent pass. Imports are parsed depth first
// into the same Session before the importing file's body, and are merged once
// the importing file has been read completely. The first problem found ends
// the parse with a *Diagnostic.
package parser

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/idlc/ast"
	"github.com/teranos/idlc/chars"
	"github.com/teranos/idlc/lexer"
	"github.com/teranos/idlc/logger"
)

// Parser parses one IDL file. Use a new Parser per file.
type Parser struct {
	session  *Session
	filename string
	lexer    *lexer.Lexer
	log      *zap.SugaredLogger

	iface    *ast.Interface
	moduleID ast.ModuleID

	// Set once the file's single non-mixin interface has been read.
	sawInterface bool

	imports        []importRecord
	includeOffsets map[string]int

	// Offset of a block comment that reached end of input, -1 when none.
	openComment int
}

type importRecord struct {
	module ast.ModuleID
	path   string
	offset int
}

// New prepares a parser for contents read from filename. filename should
// already be canonical when the file takes part in imports.
func New(session *Session, filename, contents string) *Parser {
	return &Parser{
		session:        session,
		filename:       filename,
		lexer:          lexer.New(contents),
		log:            session.log.With("file", filename),
		iface:          ast.NewInterface(),
		includeOffsets: map[string]int{},
		openComment:    -1,
	}
}

// ModuleID returns the arena ID of the module once Parse has started.
func (p *Parser) ModuleID() ast.ModuleID { return p.moduleID }

// Parse reads the whole file, its imports, and resolves mixins.
func (p *Parser) Parse() (*ast.Interface, error) {
	p.iface.ModuleOwnPath = p.filename
	// Imports were claimed by the importer; this marks the root.
	p.session.MarkImported(p.filename)
	p.moduleID = p.session.Arena().AddModule(p.iface)

	if err := p.parseImports(); err != nil {
		return nil, err
	}
	if err := p.parseDeclarations(); err != nil {
		return nil, err
	}
	if err := p.mergeImports(); err != nil {
		return nil, err
	}
	if err := p.spliceMixins(); err != nil {
		return nil, err
	}

	p.log.Debugw("Parsed module",
		logger.FieldFile, p.filename,
		logger.FieldInterface, p.iface.Name,
		"imports", len(p.imports),
		"attributes", len(p.iface.Attributes),
		"functions", len(p.iface.Functions))
	return p.iface, nil
}

func (p *Parser) parseDeclarations() error {
	for {
		p.skipWhitespace()
		if p.lexer.IsEOF() {
			if p.openComment >= 0 {
				return p.errorAt(KindLexical, p.openComment, "Unterminated comment.")
			}
			return nil
		}

		var attrs ast.ExtendedAttributes
		attrsOffset := p.lexer.Tell()
		if p.lexer.NextIs('[') {
			var err error
			if attrs, err = p.parseExtendedAttributes(); err != nil {
				return err
			}
			p.skipWhitespace()
		}

		switch {
		case p.consumeKeyword("interface"):
			p.skipWhitespace()
			if p.consumeKeyword("mixin") {
				if err := p.parseMixin(attrs); err != nil {
					return err
				}
				continue
			}
			if err := p.parseInterface(attrs); err != nil {
				return err
			}
			continue
		case attrs != nil:
			return p.errorAt(KindSyntax, attrsOffset, "Extended attributes are only supported on interfaces and members.")
		case p.consumeKeyword("dictionary"):
			if err := p.parseDictionary(); err != nil {
				return err
			}
		case p.consumeKeyword("enum"):
			if err := p.parseEnum(); err != nil {
				return err
			}
		case p.lexer.NextIs('#'):
			return p.errorf(KindImport, "Imports must appear before any declaration.")
		case p.lexer.NextIsFunc(lexer.IsIdentifierByte):
			if err := p.parseIncludes(); err != nil {
				return err
			}
		default:
			return p.unexpected("a declaration")
		}
	}
}

// skipWhitespace skips whitespace and comments until neither is next.
// An unterminated block comment runs to the end of input and is remembered;
// the next diagnostic reports it instead.
func (p *Parser) skipWhitespace() {
	for {
		before := p.lexer.Tell()
		p.lexer.IgnoreWhile(chars.Byte(chars.IsASCIISpace))
		switch {
		case p.lexer.NextIsString("//"):
			p.lexer.IgnoreUntilByte('\n')
		case p.lexer.NextIsString("/*"):
			start := p.lexer.Tell()
			p.lexer.Ignore(2)
			p.lexer.ConsumeUntilString("*/")
			if !p.lexer.ConsumeSpecificString("*/") && p.openComment < 0 {
				p.openComment = start
			}
		}
		if p.lexer.Tell() == before {
			return
		}
	}
}

func (p *Parser) nextIsKeyword(keyword string) bool {
	return p.lexer.NextIsString(keyword) && !lexer.IsIdentifierByte(p.lexer.Peek(len(keyword)))
}

// consumeKeyword consumes keyword only when it is not the prefix of a longer identifier.
func (p *Parser) consumeKeyword(keyword string) bool {
	if !p.nextIsKeyword(keyword) {
		return false
	}
	p.lexer.Ignore(len(keyword))
	return true
}

func (p *Parser) parseIdentifier(what string) (string, error) {
	p.skipWhitespace()
	offset := p.lexer.Tell()
	ident := p.lexer.ConsumeWhile(lexer.IsIdentifierByte)
	if ident == "" {
		return "", p.unexpected(what)
	}
	if chars.IsASCIIDigit(rune(ident[0])) {
		return "", p.errorAt(KindSyntax, offset, fmt.Sprintf("Expected %s, got '%s'.", what, ident))
	}
	return ident, nil
}

func (p *Parser) expect(b byte) error {
	p.skipWhitespace()
	if !p.lexer.ConsumeSpecific(b) {
		return p.unexpected(fmt.Sprintf("'%c'", b))
	}
	return nil
}

func (p *Parser) unexpected(expected string) error {
	if p.lexer.IsEOF() {
		return p.errorf(KindSyntax, "Expected %s, got end of input.", expected)
	}
	got := p.lexer.ConsumeWhile(lexer.IsIdentifierByte)
	if got == "" {
		got = string(p.lexer.Peek(0))
	} else {
		p.lexer.Retreat(len(got))
	}
	return p.errorf(KindSyntax, "Expected %s, got '%s'.", expected, got)
}

func (p *Parser) errorf(kind DiagnosticKind, format string, args ...interface{}) error {
	return p.errorAt(kind, p.lexer.Tell(), fmt.Sprintf(format, args...))
}

func (p *Parser) errorAt(kind DiagnosticKind, offset int, msg string) error {
	if p.openComment >= 0 {
		// Everything after the comment was swallowed by it.
		return newDiagnostic(KindLexical, p.filename, p.lexer.Input(), p.openComment, "Unterminated comment.")
	}
	return newDiagnostic(kind, p.filename, p.lexer.Input(), offset, msg)
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
