package config

import (
	"os"

	"github.com/teranos/idlc/errors"
	"github.com/teranos/idlc/logger"
	"github.com/teranos/idlc/version"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Jobs: 0 = one per CPU, negative = invalid
	if c.Generate.Jobs < 0 {
		return errors.NewInvalidConfigError("generate.jobs must be >= 0, got %d", c.Generate.Jobs)
	}

	for key, path := range map[string]string{
		"templates.header":         c.Templates.Header,
		"templates.implementation": c.Templates.Implementation,
	} {
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			return errors.WithHint(
				errors.NewInvalidConfigError("%s: template file %s does not exist", key, path),
				"remove the key to use the built-in template")
		}
		if info.IsDir() {
			return errors.NewInvalidConfigError("%s: %s is a directory", key, path)
		}
	}

	if c.Log.Verbosity < 0 {
		return errors.NewInvalidConfigError("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}
	if c.Log.Theme != "" && !logger.HasTheme(c.Log.Theme) {
		return errors.NewInvalidConfigError("log.theme %q is not a known theme", c.Log.Theme)
	}

	if c.Generate.RequiredVersion != "" {
		ok, err := version.Satisfies(c.Generate.RequiredVersion)
		if err != nil {
			return errors.Mark(errors.Wrap(err, "generate.required_version"), errors.ErrInvalidConfig)
		}
		if !ok {
			return errors.WithHintf(
				errors.NewInvalidConfigError("idlc %s does not satisfy generate.required_version %q",
					version.Get().Version, c.Generate.RequiredVersion),
				"install an idlc release matching %s", c.Generate.RequiredVersion)
		}
	}

	return nil
}
