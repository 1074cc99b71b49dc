// Package commands implements the idlc subcommands.
package commands

import (
	"runtime"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/teranos/idlc/codegen"
	"github.com/teranos/idlc/compile"
	"github.com/teranos/idlc/config"
	"github.com/teranos/idlc/errors"
	"github.com/teranos/idlc/logger"
)

// Verbosity is the effective -v count, set by the root command.
var Verbosity int

// generateFlags are shared by generate and watch.
type generateFlags struct {
	header         bool
	implementation bool
	headerOut      string
	implOut        string
	headerTemplate string
	implTemplate   string
	namespace      string
	includePaths   []string
}

func (f *generateFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolVarP(&f.header, "header", "H", false, "Generate the header unit")
	flags.BoolVarP(&f.implementation, "implementation", "I", false, "Generate the implementation unit")
	flags.StringVar(&f.headerOut, "header-out", "", "Header output path (default: stdout)")
	flags.StringVar(&f.implOut, "impl-out", "", "Implementation output path (default: stdout)")
	flags.StringVar(&f.headerTemplate, "header-template", "", "Template file for the header unit")
	flags.StringVar(&f.implTemplate, "impl-template", "", "Template file for the implementation unit")
	flags.StringVarP(&f.namespace, "namespace", "n", "", "C++ namespace of the implementation classes")
	flags.StringSliceVarP(&f.includePaths, "header-include-path", "i", nil, "Directory stripped from generated include paths (repeatable)")
}

// outputs returns the requested units. Neither flag means both.
func (f *generateFlags) outputs() []compile.Output {
	header, impl := f.header, f.implementation
	if !header && !impl {
		header, impl = true, true
	}
	var outs []compile.Output
	if header {
		outs = append(outs, compile.Output{Unit: codegen.UnitHeader, Path: f.headerOut})
	}
	if impl {
		outs = append(outs, compile.Output{Unit: codegen.UnitImplementation, Path: f.implOut})
	}
	return outs
}

// apply overlays explicitly set flags on cfg.
func (f *generateFlags) apply(cmd *cobra.Command, cfg *config.Config) *config.Config {
	out := *cfg
	if cmd.Flags().Changed("namespace") {
		out.Generate.Namespace = f.namespace
	}
	if len(f.includePaths) > 0 {
		out.Generate.HeaderSearchPaths = append(append([]string(nil), cfg.Generate.HeaderSearchPaths...), f.includePaths...)
	}
	if f.headerTemplate != "" {
		out.Templates.Header = f.headerTemplate
	}
	if f.implTemplate != "" {
		out.Templates.Implementation = f.implTemplate
	}
	return &out
}

// loadConfig returns the validated configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newGenerator builds a generator with cfg's options and template overrides.
func newGenerator(fs afero.Fs, cfg *config.Config) (*codegen.Generator, error) {
	gen, err := codegen.NewGenerator(cfg.CodegenOptions())
	if err != nil {
		return nil, err
	}
	for unit, path := range map[codegen.Unit]string{
		codegen.UnitHeader:         cfg.Templates.Header,
		codegen.UnitImplementation: cfg.Templates.Implementation,
	} {
		if path == "" {
			continue
		}
		if err := gen.LoadTemplate(fs, unit, path); err != nil {
			return nil, err
		}
		if logger.ShouldOutput(Verbosity, logger.OutputTemplates) {
			logger.Debugw("Using template", logger.FieldUnit, unit.String(), logger.FieldTemplate, path)
		}
	}
	return gen, nil
}

// newCompiler builds a compiler for cfg writing to the host filesystem.
func newCompiler(cmd *cobra.Command, cfg *config.Config) (*compile.Compiler, error) {
	fs := afero.NewOsFs()
	gen, err := newGenerator(fs, cfg)
	if err != nil {
		return nil, err
	}
	formatter, err := compile.NewFormatter(cfg.Generate.FormatCommand)
	if err != nil {
		return nil, err
	}
	return compile.New(gen,
		compile.WithFs(fs),
		compile.WithStdout(cmd.OutOrStdout()),
		compile.WithFormatter(formatter),
	), nil
}

// jobLimit resolves the configured job count; 0 means one per CPU.
func jobLimit(jobs int) int {
	if jobs <= 0 {
		return runtime.NumCPU()
	}
	return jobs
}
