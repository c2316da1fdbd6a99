package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opencode-ai/promptcmd/internal/logging"
)

// ListKey is the document key holding the template list in config files.
const ListKey = "templates"

// LoadFile reads the templates defined in a YAML file. Entries are addressed
// as templates[i]; a single-template file is entry 0. Read and syntax errors
// are returned as errors. Entries with any diagnostic, warnings included, are
// reported and left out of the result.
func LoadFile(path string) ([]*Template, Diagnostics, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil, fmt.Errorf("template file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read template file %s: %w", path, err)
	}

	candidates, err := ParseCandidates(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse template file %s: %w", path, err)
	}

	resolved, diags := Resolve(candidates, ListKey, path)
	logger := logging.Component("templates")
	logger.Debug().
		Str("file", path).
		Int("entries", len(candidates)).
		Int("accepted", len(resolved)).
		Int("diagnostics", len(diags)).
		Msg("loaded template file")

	return resolved, diags.WithFile(path), nil
}

// ParseCandidates decodes YAML into loosely-typed template candidates. A
// document is a list of templates, a mapping with a "templates" list, or a
// single template mapping.
func ParseCandidates(data []byte) ([]any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	switch v := doc.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	case map[string]any:
		if raw, ok := v[ListKey]; ok {
			if raw == nil {
				return nil, nil
			}
			items, ok := raw.([]any)
			if !ok {
				return nil, fmt.Errorf("%s must be a list, got %s", ListKey, describeType(raw))
			}
			return items, nil
		}
		if _, ok := v[fieldName]; ok {
			return []any{v}, nil
		}
		return nil, fmt.Errorf("expected a %q list or a template with a %q field", ListKey, fieldName)
	default:
		return nil, fmt.Errorf("expected a list or a mapping with %q, got %s", ListKey, describeType(doc))
	}
}

// LoadFromDir loads all template files from a directory, ordered by file name.
// A missing directory yields no templates.
func LoadFromDir(dir string) ([]*Template, Diagnostics, error) {
	if strings.TrimSpace(dir) == "" {
		return []*Template{}, nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Template{}, nil, nil
		}
		return nil, nil, fmt.Errorf("read templates dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	templates := make([]*Template, 0)
	var diags Diagnostics
	for _, name := range names {
		loaded, fileDiags, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, nil, err
		}
		templates = append(templates, loaded...)
		diags = append(diags, fileDiags...)
	}

	return templates, diags, nil
}
