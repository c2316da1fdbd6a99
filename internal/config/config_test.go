package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadExplicitFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "promptcmd.yaml", `log_level: debug
output: json
allow_warnings: true
template_dirs:
  - ./extra
templates:
  - name: review
    command: "amp -p 'Review: $@'"
    description: Code review
    aliases: [rev, 123]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.True(t, cfg.AllowWarnings)
	assert.Equal(t, []string{"./extra"}, cfg.TemplateDirs)
	assert.Equal(t, path, cfg.Source)

	require.Len(t, cfg.Templates, 1)
	entry, ok := cfg.Templates[0].(map[string]any)
	require.True(t, ok, "template entry should stay a loose map, got %T", cfg.Templates[0])
	assert.Equal(t, "review", entry["name"])
	aliases, ok := entry["aliases"].([]any)
	require.True(t, ok)
	assert.Len(t, aliases, 2)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	testChdir(t, dir)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig().Output, cfg.Output)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Source)
	assert.Empty(t, cfg.Templates)
}

func TestLoadSearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	testChdir(t, dir)
	writeConfig(t, dir, "promptcmd.yaml", "theme: high-contrast\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "high-contrast", cfg.Theme)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "promptcmd.yaml", "output: text\n")
	t.Setenv("PROMPTCMD_OUTPUT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "promptcmd.yaml", "output: xml\nlog_format: pretty\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output must be one of")
	assert.Contains(t, err.Error(), "log_format must be one of")
}

func TestValidateDefaultConfig(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.TemplateDirs = []string{""}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template_dirs")
}
