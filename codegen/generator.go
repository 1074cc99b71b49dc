package codegen

import (
	"embed"
	"text/template"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/teranos/idlc/ast"
	"github.com/teranos/idlc/errors"
	"github.com/teranos/idlc/logger"
)

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

var defaultTemplateFiles = map[Unit]string{
	UnitHeader:         "templates/header.tmpl",
	UnitImplementation: "templates/implementation.tmpl",
}

// Generator renders the source units for resolved interfaces. It holds parsed
// templates only and may be shared between goroutines once configured.
type Generator struct {
	opts      Options
	renderer  *Renderer
	templates map[Unit]*template.Template
	log       *zap.SugaredLogger
}

// NewGenerator returns a Generator using the embedded default templates.
func NewGenerator(opts Options) (*Generator, error) {
	if opts.Namer == nil {
		opts.Namer = NewNamer()
	}
	g := &Generator{
		opts:      opts,
		renderer:  NewRenderer(opts.Namer),
		templates: map[Unit]*template.Template{},
		log:       logger.ComponentLogger("codegen"),
	}
	for unit, file := range defaultTemplateFiles {
		text, err := defaultTemplates.ReadFile(file)
		if err != nil {
			return nil, errors.Wrapf(err, "read embedded %s template", unit)
		}
		if err := g.SetTemplate(unit, file, string(text)); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// SetTemplate replaces the template for unit.
func (g *Generator) SetTemplate(unit Unit, name, text string) error {
	tpl, err := g.renderer.Parse(name, text)
	if err != nil {
		return err
	}
	g.templates[unit] = tpl
	return nil
}

// LoadTemplate reads the template for unit from path on fs.
func (g *Generator) LoadTemplate(fs afero.Fs, unit Unit, path string) error {
	text, err := afero.ReadFile(fs, path)
	if err != nil {
		return errors.WrapTemplate(err, "read "+unit.String()+" template")
	}
	g.log.Debugw("Loaded template", logger.FieldUnit, unit.String(), logger.FieldFile, path)
	return g.SetTemplate(unit, path, string(text))
}

// Generate renders one unit for iface.
func (g *Generator) Generate(iface *ast.Interface, unit Unit) (string, error) {
	tpl, ok := g.templates[unit]
	if !ok {
		return "", errors.NewTemplateError("no template for unit %s", unit)
	}
	start := time.Now()

	data, err := BuildData(iface, unit, g.opts)
	if err != nil {
		return "", err
	}
	out, err := g.renderer.Render(tpl, data)
	if err != nil {
		return "", err
	}

	g.log.Debugw("Rendered unit",
		logger.FieldUnit, unit.String(),
		logger.FieldInterface, iface.Name,
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return out, nil
}

// Options returns the options the generator was built with.
func (g *Generator) Options() Options {
	return g.opts
}
