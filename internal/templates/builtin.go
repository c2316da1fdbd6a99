package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// BuiltinSource marks templates bundled with the binary.
const BuiltinSource = "builtin"

// LoadBuiltin returns the built-in templates bundled with promptcmd.
// Builtins are held to the same rules as user templates; any diagnostic is
// reported as an error.
func LoadBuiltin() ([]*Template, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("read builtin templates: %w", err)
	}

	templates := make([]*Template, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := "builtin/" + entry.Name()
		data, err := builtinFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read builtin template %s: %w", entry.Name(), err)
		}
		candidates, err := ParseCandidates(data)
		if err != nil {
			return nil, fmt.Errorf("parse builtin template %s: %w", entry.Name(), err)
		}
		resolved, diags := Resolve(candidates, ListKey, BuiltinSource)
		if err := diags.WithFile(path).Err(); err != nil {
			return nil, fmt.Errorf("builtin template %s: %w", entry.Name(), err)
		}
		templates = append(templates, resolved...)
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})

	return templates, nil
}
