package codegen

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"

	"github.com/iancoleman/strcase"

	"github.com/teranos/idlc/ast"
	"github.com/teranos/idlc/errors"
)

// Renderer parses and executes text templates over TemplateData. Templates
// fail on references to fields or keys that do not exist.
type Renderer struct {
	funcs template.FuncMap
}

func NewRenderer(namer *Namer) *Renderer {
	if namer == nil {
		namer = NewNamer()
	}
	return &Renderer{funcs: template.FuncMap{
		"pascal":     strcase.ToCamel,
		"camel":      strcase.ToLowerCamel,
		"snake":      strcase.ToSnake,
		"screaming":  strcase.ToScreamingSnake,
		"title":      ast.TitleCase,
		"identifier": namer.Identifier,
		"joinRange":  joinRange,
		"add":        func(a, b int) int { return a + b },
		"sub":        func(a, b int) int { return a - b },
		"cstring":    cString,
		"last":       func(i, n int) bool { return i == n-1 },
	}}
}

// Parse compiles a template. Syntax errors are template errors.
func (r *Renderer) Parse(name, text string) (*template.Template, error) {
	tpl, err := template.New(name).Funcs(r.funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, errors.WrapTemplate(err, "parse template "+name)
	}
	return tpl, nil
}

// Render executes tpl fully in memory. Nothing is returned on failure.
func (r *Renderer) Render(tpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", errors.WrapTemplate(err, "render template "+tpl.Name())
	}
	return buf.String(), nil
}

// RenderString parses and executes text in one step.
func (r *Renderer) RenderString(name, text string, data any) (string, error) {
	tpl, err := r.Parse(name, text)
	if err != nil {
		return "", err
	}
	return r.Render(tpl, data)
}

// joinRange repeats pattern n times with "{}" replaced by the index, joining
// the results with sep.
func joinRange(sep, pattern string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = strings.ReplaceAll(pattern, "{}", strconv.Itoa(i))
	}
	return strings.Join(parts, sep)
}

// cString quotes s as a C++ string literal.
func cString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
