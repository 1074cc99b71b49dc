package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	burnt "github.com/BurntSushi/toml"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/idlc/errors"
	"github.com/teranos/idlc/logger"
)

const defaultFileHeader = `# idlc configuration
#
# Sources, later overrides earlier:
#   1. built-in defaults
#   2. ~/.idlc/idlc.toml
#   3. idlc.toml in the working directory or any parent
#   4. IDLC_* environment variables (IDLC_GENERATE_NAMESPACE, ...)
#   5. command line flags

`

// Default returns the configuration produced by SetDefaults alone.
func Default() *Config {
	return &Config{
		Generate: GenerateConfig{
			BindingNamespace:  "Bindings",
			IncludeRoot:       "bindings",
			HeaderSearchPaths: []string{},
			OutputDir:         ".",
		},
		Naming: NamingConfig{ReservedWords: []string{}},
		Log:    LogConfig{Theme: "everforest"},
	}
}

// Marshal renders cfg as toml, json or yaml.
func Marshal(cfg *Config, format string) ([]byte, error) {
	switch format {
	case "toml", "":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to TOML")
		}
		return data, nil
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to JSON")
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config to YAML")
		}
		return data, nil
	default:
		return nil, errors.NewInvalidConfigError("unsupported format: %s (supported: toml, json, yaml)", format)
	}
}

// WriteDefault writes a commented default idlc.toml to path. An existing
// file is only replaced when force is set, after rotating backups.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.WithHint(
			errors.Newf("%s already exists", path),
			"pass --force to overwrite it; the old file is kept as .back1")
	}

	var buf bytes.Buffer
	buf.WriteString(defaultFileHeader)
	if err := burnt.NewEncoder(&buf).Encode(Default()); err != nil {
		return errors.Wrap(err, "failed to encode default config")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}
	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	markOwnWrite()

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	logger.Infow("Wrote default config", logger.FieldFile, path)
	return nil
}

// createBackup creates rotating backups (.back1, .back2, .back3) before
// replacing a config file
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old config backup", logger.FieldFile, back3, logger.FieldError, err)
	}

	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, 0644); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}
