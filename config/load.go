package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/teranos/idlc/errors"
	"github.com/teranos/idlc/logger"
)

var (
	mu            sync.Mutex
	globalConfig  *Config
	viperInstance *viper.Viper
	explicitPath  string
	loadedFiles   []string
)

// SetConfigFile makes Load read path instead of searching for idlc.toml.
// An empty path restores the search.
func SetConfigFile(path string) {
	mu.Lock()
	defer mu.Unlock()
	explicitPath = path
	globalConfig = nil
	viperInstance = nil
}

// Load reads the idlc configuration using Viper
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()
	if globalConfig != nil {
		return globalConfig, nil
	}

	v, err := initViper()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	globalConfig = cfg
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() (*viper.Viper, error) {
	mu.Lock()
	defer mu.Unlock()
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// Defaults only, no environment for an explicit file
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "config file %s", configPath)
	}
	return cfg, nil
}

// Reset clears the cached configuration
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = nil
	viperInstance = nil
	loadedFiles = nil
}

// Files returns the configuration files merged by the last Load, lowest
// precedence first.
func Files() []string {
	mu.Lock()
	defer mu.Unlock()
	return append([]string(nil), loadedFiles...)
}

// initViper initializes Viper with configuration sources and defaults.
// Callers hold mu.
func initViper() (*viper.Viper, error) {
	if viperInstance != nil {
		return viperInstance, nil
	}

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	files := searchPaths()
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return nil, errors.Wrapf(err, "config file %s", explicitPath)
		}
		files = []string{explicitPath}
	}
	merged, err := mergeConfigFiles(v, files)
	if err != nil {
		return nil, err
	}

	loadedFiles = merged
	viperInstance = v
	return v, nil
}

// UserConfigPath returns ~/.idlc/idlc.toml, or "" without a home directory.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserDirName, FileName)
}

// FindProjectConfig searches for idlc.toml by walking up from the working
// directory. Returns "" when none is found.
func FindProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findUpward(dir)
}

func findUpward(dir string) string {
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// searchPaths lists candidate files, lowest precedence first.
func searchPaths() []string {
	var paths []string
	if user := UserConfigPath(); user != "" {
		paths = append(paths, user)
	}
	if project := FindProjectConfig(); project != "" {
		paths = append(paths, project)
	}
	return paths
}

// mergeConfigFiles merges the existing files into v in order. Later files
// override earlier ones; environment variables still win over all of them.
func mergeConfigFiles(v *viper.Viper, paths []string) ([]string, error) {
	var merged []string
	for _, configPath := range paths {
		if _, err := os.Stat(configPath); err != nil {
			continue
		}
		tempViper := viper.New()
		tempViper.SetConfigFile(configPath)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
		}
		if err := v.MergeConfigMap(tempViper.AllSettings()); err != nil {
			return nil, errors.Wrapf(err, "failed to merge config file %s", configPath)
		}
		logger.Debugw("Merged config file", logger.FieldFile, configPath)
		merged = append(merged, configPath)
	}
	return merged, nil
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	v, err := GetViper()
	if err != nil {
		return nil
	}
	return v.Get(key)
}

// GetString returns a string configuration value
func GetString(key string) string {
	v, err := GetViper()
	if err != nil {
		return ""
	}
	return v.GetString(key)
}

// GetInt returns an integer configuration value
func GetInt(key string) int {
	v, err := GetViper()
	if err != nil {
		return 0
	}
	return v.GetInt(key)
}
