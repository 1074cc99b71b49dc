// Package config loads idlc settings from defaults, idlc.toml files and
// IDLC_* environment variables.
package config

import (
	"github.com/teranos/idlc/codegen"
)

// Config represents the idlc configuration
type Config struct {
	Generate  GenerateConfig  `mapstructure:"generate" toml:"generate" json:"generate" yaml:"generate"`
	Templates TemplatesConfig `mapstructure:"templates" toml:"templates" json:"templates" yaml:"templates"`
	Naming    NamingConfig    `mapstructure:"naming" toml:"naming" json:"naming" yaml:"naming"`
	Log       LogConfig       `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// GenerateConfig configures code generation and output
type GenerateConfig struct {
	Namespace         string   `mapstructure:"namespace" toml:"namespace" json:"namespace" yaml:"namespace"`                                     // C++ namespace of the wrapped implementation classes
	BindingNamespace  string   `mapstructure:"binding_namespace" toml:"binding_namespace" json:"binding_namespace" yaml:"binding_namespace"`     // namespace the generated wrappers live in
	IncludeRoot       string   `mapstructure:"include_root" toml:"include_root" json:"include_root" yaml:"include_root"`                         // prefix of the runtime support headers
	HeaderSearchPaths []string `mapstructure:"header_search_paths" toml:"header_search_paths" json:"header_search_paths" yaml:"header_search_paths"`
	ImportBase        string   `mapstructure:"import_base" toml:"import_base" json:"import_base" yaml:"import_base"`
	Jobs              int      `mapstructure:"jobs" toml:"jobs" json:"jobs" yaml:"jobs"` // 0 = one per CPU
	OutputDir         string   `mapstructure:"output_dir" toml:"output_dir" json:"output_dir" yaml:"output_dir"`
	FormatCommand     string   `mapstructure:"format_command" toml:"format_command" json:"format_command" yaml:"format_command"` // e.g. "clang-format -i"
	RequiredVersion   string   `mapstructure:"required_version" toml:"required_version" json:"required_version" yaml:"required_version"`
}

// TemplatesConfig overrides the embedded templates. Empty means embedded.
type TemplatesConfig struct {
	Header         string `mapstructure:"header" toml:"header" json:"header" yaml:"header"`
	Implementation string `mapstructure:"implementation" toml:"implementation" json:"implementation" yaml:"implementation"`
}

// NamingConfig extends identifier sanitising
type NamingConfig struct {
	ReservedWords []string `mapstructure:"reserved_words" toml:"reserved_words" json:"reserved_words" yaml:"reserved_words"`
}

// LogConfig configures logger output
type LogConfig struct {
	JSON      bool   `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Theme     string `mapstructure:"theme" toml:"theme" json:"theme" yaml:"theme"` // gruvbox, everforest
	Verbosity int    `mapstructure:"verbosity" toml:"verbosity" json:"verbosity" yaml:"verbosity"`
}

// CodegenOptions converts the generate and naming sections into generator options.
func (c *Config) CodegenOptions() codegen.Options {
	opts := codegen.DefaultOptions()
	opts.Namespace = c.Generate.Namespace
	if c.Generate.BindingNamespace != "" {
		opts.BindingNamespace = c.Generate.BindingNamespace
	}
	if c.Generate.IncludeRoot != "" {
		opts.IncludeRoot = c.Generate.IncludeRoot
	}
	opts.HeaderSearchPaths = append([]string(nil), c.Generate.HeaderSearchPaths...)
	opts.Namer = codegen.NewNamer(c.Naming.ReservedWords...)
	return opts
}
