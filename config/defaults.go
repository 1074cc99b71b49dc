package config

import (
	"github.com/spf13/viper"
)

// File and directory names used when searching for configuration
const (
	FileName              = "idlc.toml"
	UserDirName           = ".idlc"
	EnvPrefix             = "IDLC"
	DefaultDirPermissions = 0750
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Generate defaults
	v.SetDefault("generate.namespace", "")
	v.SetDefault("generate.binding_namespace", "Bindings")
	v.SetDefault("generate.include_root", "bindings")
	v.SetDefault("generate.header_search_paths", []string{})
	v.SetDefault("generate.import_base", "")
	v.SetDefault("generate.jobs", 0) // one per CPU
	v.SetDefault("generate.output_dir", ".")
	v.SetDefault("generate.format_command", "")
	v.SetDefault("generate.required_version", "")

	// Embedded templates unless overridden
	v.SetDefault("templates.header", "")
	v.SetDefault("templates.implementation", "")

	v.SetDefault("naming.reserved_words", []string{})

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", "everforest")
	v.SetDefault("log.verbosity", 0)
}
