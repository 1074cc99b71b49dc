package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/teranos/idlc/errors"
	"github.com/teranos/idlc/version"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func useConfigFile(t *testing.T, path string) {
	t.Helper()
	SetConfigFile(path)
	t.Cleanup(func() {
		SetConfigFile("")
		Reset()
	})
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, "Bindings", cfg.Generate.BindingNamespace)
	assert.Equal(t, "bindings", cfg.Generate.IncludeRoot)
	assert.Equal(t, ".", cfg.Generate.OutputDir)
	assert.Empty(t, cfg.Generate.HeaderSearchPaths)
	assert.Equal(t, "everforest", cfg.Log.Theme)
	assert.Zero(t, cfg.Generate.Jobs)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, `
[generate]
namespace = "Web"
header_search_paths = ["/src/idl"]
jobs = 4

[naming]
reserved_words = ["Impl"]
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Web", cfg.Generate.Namespace)
	assert.Equal(t, []string{"/src/idl"}, cfg.Generate.HeaderSearchPaths)
	assert.Equal(t, 4, cfg.Generate.Jobs)
	assert.Equal(t, "bindings", cfg.Generate.IncludeRoot, "defaults fill unset keys")
	assert.Equal(t, []string{"Impl"}, cfg.Naming.ReservedWords)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, "[generate]\nnamespace = \"Web\"\nbinding_namespace = \"JS\"\n")
	useConfigFile(t, path)
	t.Setenv("IDLC_GENERATE_NAMESPACE", "Engine")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Engine", cfg.Generate.Namespace)
	assert.Equal(t, "JS", cfg.Generate.BindingNamespace)
	assert.Equal(t, []string{path}, Files())

	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, again, "Load caches until Reset")
}

func TestLoadExplicitMissingFile(t *testing.T) {
	useConfigFile(t, filepath.Join(t.TempDir(), "nope.toml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestMergeConfigFilesPrecedence(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "user.toml")
	project := filepath.Join(dir, "project.toml")
	writeFile(t, user, "[generate]\nnamespace = \"User\"\njobs = 2\n")
	writeFile(t, project, "[generate]\nnamespace = \"Project\"\n")

	v := viper.New()
	SetDefaults(v)
	merged, err := mergeConfigFiles(v, []string{user, filepath.Join(dir, "missing.toml"), project})
	require.NoError(t, err)
	assert.Equal(t, []string{user, project}, merged)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.Equal(t, "Project", cfg.Generate.Namespace)
	assert.Equal(t, 2, cfg.Generate.Jobs)
}

func TestFindUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	writeFile(t, filepath.Join(root, FileName), "")

	assert.Equal(t, filepath.Join(root, FileName), findUpward(nested))
}

func TestValidate(t *testing.T) {
	tmpl := filepath.Join(t.TempDir(), "header.tmpl")
	writeFile(t, tmpl, "{{ .Name }}")

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero jobs is valid (one per CPU)", func(c *Config) { c.Generate.Jobs = 0 }, false},
		{"negative jobs is invalid", func(c *Config) { c.Generate.Jobs = -1 }, true},
		{"existing template", func(c *Config) { c.Templates.Header = tmpl }, false},
		{"missing template", func(c *Config) { c.Templates.Implementation = tmpl + ".missing" }, true},
		{"template is a directory", func(c *Config) { c.Templates.Header = filepath.Dir(tmpl) }, true},
		{"unknown theme", func(c *Config) { c.Log.Theme = "solarized" }, true},
		{"negative verbosity", func(c *Config) { c.Log.Verbosity = -2 }, true},
		{"malformed version constraint", func(c *Config) { c.Generate.RequiredVersion = "not a version" }, true},
		{"dev build satisfies any constraint", func(c *Config) { c.Generate.RequiredVersion = ">= 9.0.0" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestValidateRequiredVersion(t *testing.T) {
	saved := version.Version
	t.Cleanup(func() { version.Version = saved })
	version.Version = "v1.2.0"

	cfg := Default()
	cfg.Generate.RequiredVersion = ">= 1.0, < 2"
	assert.NoError(t, cfg.Validate())

	cfg.Generate.RequiredVersion = ">= 2.0"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "install an idlc release")
}

func TestCodegenOptions(t *testing.T) {
	cfg := Default()
	cfg.Generate.Namespace = "Web"
	cfg.Generate.HeaderSearchPaths = []string{"/idl"}
	cfg.Naming.ReservedWords = []string{"Impl"}

	opts := cfg.CodegenOptions()
	assert.Equal(t, "Web", opts.Namespace)
	assert.Equal(t, "Bindings", opts.BindingNamespace)
	assert.Equal(t, []string{"/idl"}, opts.HeaderSearchPaths)
	assert.Equal(t, "Impl_", opts.Namer.Identifier("Impl"))

	cfg.Generate.BindingNamespace = ""
	assert.Equal(t, "Bindings", cfg.CodegenOptions().BindingNamespace)
}

func TestMarshalFormats(t *testing.T) {
	cfg := Default()
	cfg.Generate.Namespace = "Web"

	data, err := Marshal(cfg, "toml")
	require.NoError(t, err)
	var fromToml Config
	require.NoError(t, toml.Unmarshal(data, &fromToml))
	assert.Equal(t, "Web", fromToml.Generate.Namespace)

	data, err = Marshal(cfg, "json")
	require.NoError(t, err)
	var fromJSON map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, "Web", fromJSON["generate"]["namespace"])

	data, err = Marshal(cfg, "yaml")
	require.NoError(t, err)
	var fromYAML Config
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, "Bindings", fromYAML.Generate.BindingNamespace)

	_, err = Marshal(cfg, "ini")
	assert.Error(t, err)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proj", FileName)

	require.NoError(t, WriteDefault(path, false))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# idlc configuration")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Generate.BindingNamespace, cfg.Generate.BindingNamespace)
	assert.Equal(t, Default().Log, cfg.Log)

	assert.Error(t, WriteDefault(path, false), "existing file needs force")

	require.NoError(t, WriteDefault(path, true))
	assert.FileExists(t, path+".back1")
	require.NoError(t, WriteDefault(path, true))
	assert.FileExists(t, path+".back2")
}

func TestIsBackupFile(t *testing.T) {
	assert.True(t, isBackupFile("/x/idlc.toml.back1"))
	assert.True(t, isBackupFile("idlc.toml.back3"))
	assert.False(t, isBackupFile("/x/idlc.toml"))
}

func TestConfigWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, "[generate]\nnamespace = \"Before\"\n")
	useConfigFile(t, path)

	cw, err := NewConfigWatcher(path)
	require.NoError(t, err)
	cw.SetDebounce(20 * time.Millisecond)
	t.Cleanup(func() { cw.Stop() })

	reloaded := make(chan string, 4)
	cw.OnReload(func(cfg *Config) error {
		reloaded <- cfg.Generate.Namespace
		return nil
	})
	cw.Start()

	writeFile(t, path, "[generate]\nnamespace = \"After\"\n")

	select {
	case ns := <-reloaded:
		assert.Equal(t, "After", ns)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not picked up")
	}
}

func TestConfigWatcherIgnoresOwnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, "")

	cw, err := NewConfigWatcher(path)
	require.NoError(t, err)
	t.Cleanup(func() { cw.Stop() })

	cw.MarkOwnWrite()
	assert.True(t, cw.checkOwnWrite())
	assert.False(t, cw.checkOwnWrite())
	assert.True(t, cw.watches(path))
	assert.False(t, cw.watches(path+".back1"))
}

func TestNewConfigWatcherNeedsPaths(t *testing.T) {
	_, err := NewConfigWatcher()
	assert.Error(t, err)
}
