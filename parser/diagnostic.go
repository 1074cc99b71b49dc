package parser

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/idlc/errors"
)

// DiagnosticKind classifies a parse failure.
type DiagnosticKind string

const (
	KindLexical  DiagnosticKind = "lexical"
	KindSyntax   DiagnosticKind = "syntax"
	KindSemantic DiagnosticKind = "semantic"
	KindImport   DiagnosticKind = "import"
)

// Diagnostic is the single error a failed parse produces. It pins the failure
// to a byte offset in a named file and carries the source line for rendering.
type Diagnostic struct {
	Kind     DiagnosticKind
	Message  string
	Filename string

	// Offset is the byte offset into the file contents.
	Offset int

	// Line and Column are 1-based; Column counts bytes.
	Line   int
	Column int

	SourceLine string
}

func newDiagnostic(kind DiagnosticKind, filename, input string, offset int, msg string) *Diagnostic {
	if offset > len(input) {
		offset = len(input)
	}
	if offset < 0 {
		offset = 0
	}

	lineStart := strings.LastIndexByte(input[:offset], '\n') + 1
	lineEnd := strings.IndexByte(input[lineStart:], '\n')
	if lineEnd < 0 {
		lineEnd = len(input)
	} else {
		lineEnd += lineStart
	}

	return &Diagnostic{
		Kind:       kind,
		Message:    msg,
		Filename:   filename,
		Offset:     offset,
		Line:       strings.Count(input[:lineStart], "\n") + 1,
		Column:     offset - lineStart + 1,
		SourceLine: strings.TrimRight(input[lineStart:lineEnd], "\r"),
	}
}

// Error implements error as "file:line:column: error: message".
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: error: %s", d.Filename, d.Line, d.Column, d.Message)
}

// Unwrap exposes the sentinel for the diagnostic's kind so callers can use errors.Is.
func (d *Diagnostic) Unwrap() error {
	switch d.Kind {
	case KindImport:
		return errors.ErrImport
	case KindSemantic:
		return errors.ErrSemantic
	default:
		return errors.ErrSyntax
	}
}

// Render formats the diagnostic as the offending source line, a caret under
// the failing column, and a "file:line: error: message" trailer. Colored output
// uses terminal escapes; plain output has none.
func (d *Diagnostic) Render(colored bool) string {
	var sb strings.Builder

	sb.WriteString(d.SourceLine)
	sb.WriteByte('\n')

	// Keep tabs so the caret lines up with the source line.
	for i := 0; i < d.Column-1 && i < len(d.SourceLine); i++ {
		if d.SourceLine[i] == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	for i := len(d.SourceLine); i < d.Column-1; i++ {
		sb.WriteByte(' ')
	}

	location := fmt.Sprintf("%s:%d:", d.Filename, d.Line)
	if colored {
		sb.WriteString(pterm.Red("^"))
		sb.WriteByte('\n')
		sb.WriteString(location)
		sb.WriteString(" ")
		sb.WriteString(pterm.Red("error:"))
		sb.WriteString(" ")
		sb.WriteString(d.Message)
	} else {
		sb.WriteString("^\n")
		sb.WriteString(location)
		sb.WriteString(" error: ")
		sb.WriteString(d.Message)
	}
	return sb.String()
}

// AsDiagnostic extracts a Diagnostic from err's chain.
func AsDiagnostic(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}
