package templates

import (
	"os"
	"path/filepath"
)

// SearchPaths returns template search directories in precedence order.
func SearchPaths(projectDir string) []string {
	paths := make([]string, 0, 3)
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ".promptcmd", "templates"))
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "promptcmd", "templates"))
	}

	paths = append(paths, filepath.Join(string(filepath.Separator), "usr", "share", "promptcmd", "templates"))
	return paths
}

// LoadFromSearchPaths loads templates from search paths with first-hit
// precedence, then fills in builtins not shadowed by a loaded name.
func LoadFromSearchPaths(projectDir string) ([]*Template, Diagnostics, error) {
	var diags Diagnostics
	sets := make([][]*Template, 0, 4)

	for _, path := range SearchPaths(projectDir) {
		loaded, dirDiags, err := LoadFromDir(path)
		if err != nil {
			return nil, nil, err
		}
		diags = append(diags, dirDiags...)
		sets = append(sets, loaded)
	}

	builtins, err := LoadBuiltin()
	if err != nil {
		return nil, nil, err
	}
	sets = append(sets, builtins)

	return Merge(sets...), diags, nil
}

// Merge combines template sets, earlier sets taking precedence. A template is
// dropped when its name, or any alias, is already claimed.
func Merge(sets ...[]*Template) []*Template {
	seen := make(map[string]struct{})
	merged := make([]*Template, 0)

	for _, set := range sets {
		for _, tmpl := range set {
			if tmpl == nil || claimed(seen, tmpl) {
				continue
			}
			for _, name := range tmpl.Names() {
				seen[normalizeKey(name)] = struct{}{}
			}
			merged = append(merged, tmpl)
		}
	}

	return merged
}

func claimed(seen map[string]struct{}, tmpl *Template) bool {
	for _, name := range tmpl.Names() {
		if _, exists := seen[normalizeKey(name)]; exists {
			return true
		}
	}
	return false
}
