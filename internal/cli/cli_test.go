package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/promptcmd/internal/templates"
)

// runCLI executes the root command in an isolated home and working directory.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	testChdir(t, t.TempDir())

	cfgFile, logLevel, logFormat, projectDir = "", "", "", ""
	jsonOutput, noColor = false, false
	validateAllowWarnings = false
	listTags = nil
	appConfig = nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTemplates(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

const goodTemplates = `templates:
  - name: review
    command: "amp -p 'Review: $@'"
    description: Code review
    aliases: [rev, code-review]
  - name: tidy
    command: "claude -p ` + "`Apply Tidy First: 1) Guard clauses. Focus on: $@`" + `"
    description: Apply tidy first principles
`

func TestValidateCommandAcceptsFile(t *testing.T) {
	path := writeTemplates(t, goodTemplates)

	out, err := runCLI(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 templates accepted from 1 source: 0 errors, 0 warnings")
}

func TestValidateCommandReportsDiagnostics(t *testing.T) {
	path := writeTemplates(t, `templates:
  - name: ""
    command: "cmd $(rm -rf /)"
    description: Unsafe command
`)

	out, err := runCLI(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors")
	assert.Contains(t, out, path)
	assert.Contains(t, out, "templates[0].name")
	assert.Contains(t, out, "unsafe command substitution")
}

func TestValidateCommandJSON(t *testing.T) {
	path := writeTemplates(t, `- name: double
  command: "cmd $@ and $@"
  description: Double placeholder
`)

	out, err := runCLI(t, "--json", "validate", path)
	require.Error(t, err)

	var report validationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Valid)
	assert.Equal(t, 1, report.ErrorCount)
	require.Len(t, report.Diagnostics, 1)
	assert.Contains(t, report.Diagnostics[0].Message, "at most one $@ placeholder")
	assert.Equal(t, path, report.Diagnostics[0].File)
}

func TestValidateCommandWarnings(t *testing.T) {
	path := writeTemplates(t, `- name: bad
  command: "$@ --flag"
  description: Placeholder at start
`)

	out, err := runCLI(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "starts with $@")

	_, err = runCLI(t, "validate", "--allow-warnings", path)
	require.NoError(t, err)
}

func TestValidateCommandInlineConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "promptcmd.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`output: json
templates:
  - name: review
    command: cmd
    description: Test
    aliases: [123, valid]
`), 0644))

	out, err := runCLI(t, "--config", cfgPath, "validate")
	require.Error(t, err)

	var report validationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Diagnostics, 1)
	assert.Contains(t, report.Diagnostics[0].Message, "aliases")
	assert.Equal(t, cfgPath, report.Diagnostics[0].File)
	assert.Equal(t, []string{cfgPath, templates.BuiltinSource}, report.Sources)
}

func TestValidateCommandChecksBuiltins(t *testing.T) {
	out, err := runCLI(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "4 templates accepted from 1 source: 0 errors, 0 warnings")

	out, err = runCLI(t, "--json", "validate")
	require.NoError(t, err)

	var report validationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Valid)
	assert.Equal(t, []string{templates.BuiltinSource}, report.Sources)
	assert.Equal(t, 4, report.Accepted)
}

func TestListCommand(t *testing.T) {
	out, err := runCLI(t, "--json", "list")
	require.NoError(t, err)

	var items []*templates.Template
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	assert.Contains(t, names, "review")
	assert.Contains(t, names, "tidy-first")
}

func TestListCommandTagFilter(t *testing.T) {
	out, err := runCLI(t, "list", "--tag", "refactor")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "tidy-first")
	assert.Contains(t, out, "review-cleanup")
	assert.NotContains(t, out, "explain")
}

func TestShowCommand(t *testing.T) {
	out, err := runCLI(t, "show", "rev")
	require.NoError(t, err)
	assert.Contains(t, out, "review")
	assert.Contains(t, out, "Takes args:  yes")
	assert.Contains(t, out, templates.BuiltinSource)

	_, err = runCLI(t, "show", "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, templates.ErrTemplateNotFound))
}

func TestShowCommandPrefersProjectTemplates(t *testing.T) {
	project := t.TempDir()
	dir := filepath.Join(project, ".promptcmd", "templates")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "review.yaml"), []byte(`- name: review
  command: "my-review $@"
  description: Project review
`), 0644))

	out, err := runCLI(t, "--project", project, "--json", "show", "review")
	require.NoError(t, err)

	var tmpl templates.Template
	require.NoError(t, json.Unmarshal([]byte(out), &tmpl))
	assert.Equal(t, "my-review $@", tmpl.Command)
}

func TestListCommandSkipsWarningOnlyTemplates(t *testing.T) {
	project := t.TempDir()
	dir := filepath.Join(project, ".promptcmd", "templates")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(`name: leading
command: "$@ --flag"
description: Placeholder at start
`), 0644))

	out, err := runCLI(t, "--project", project, "--json", "list")
	require.NoError(t, err)

	var items []*templates.Template
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	for _, item := range items {
		assert.NotEqual(t, "leading", item.Name)
	}

	_, err = runCLI(t, "--project", project, "show", "leading")
	require.Error(t, err)
	assert.True(t, errors.Is(err, templates.ErrTemplateNotFound))
}

func TestRootRejectsInvalidLogFormat(t *testing.T) {
	_, err := runCLI(t, "--log-format", "xml", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_format")
}

func TestFilterTemplates(t *testing.T) {
	items := []*templates.Template{
		{Name: "a", Tags: []string{"git", "code"}},
		{Name: "b", Tags: []string{"review"}},
		{Name: "c", Tags: []string{"Git"}},
		{Name: "d", Tags: nil},
	}

	tests := []struct {
		name     string
		tags     []string
		expected int
	}{
		{"no filter", nil, 4},
		{"filter git", []string{"git"}, 2},
		{"filter review", []string{"review"}, 1},
		{"filter multiple", []string{"git", "review"}, 3},
		{"filter nonexistent", []string{"nonexistent"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filterTemplates(items, tt.tags)
			if len(result) != tt.expected {
				t.Errorf("filterTemplates() = %d items, want %d", len(result), tt.expected)
			}
		})
	}
}
