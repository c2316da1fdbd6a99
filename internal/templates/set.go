package templates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTemplateNotFound is returned when no template matches a name or alias.
var ErrTemplateNotFound = errors.New("template not found")

// ValidateSet validates every candidate at "<prefix>[i]" and reports names
// or aliases claimed by more than one template.
func ValidateSet(candidates []any, prefix string) Diagnostics {
	var diags Diagnostics
	registry := newNameRegistry()

	for i, candidate := range candidates {
		path := indexPath(prefix, i)
		diags = append(diags, Validate(candidate, path)...)
		diags = append(diags, registry.claim(candidate, path)...)
	}

	return diags
}

// Resolve decodes candidates into templates. Entries with any diagnostic,
// warnings included, or whose name or alias is already taken by an earlier
// entry, are left out. Each returned template records source.
func Resolve(candidates []any, prefix, source string) ([]*Template, Diagnostics) {
	var diags Diagnostics
	registry := newNameRegistry()
	resolved := make([]*Template, 0, len(candidates))

	for i, candidate := range candidates {
		path := indexPath(prefix, i)
		tmpl, entryDiags := Decode(candidate, path)
		diags = append(diags, entryDiags...)

		conflicts := registry.claim(candidate, path)
		diags = append(diags, conflicts...)
		if tmpl == nil || len(entryDiags) > 0 || len(conflicts) > 0 {
			continue
		}
		tmpl.Source = source
		resolved = append(resolved, tmpl)
	}

	return resolved, diags
}

// Lookup finds a template by name, falling back to aliases. Matching is
// case-insensitive.
func Lookup(templates []*Template, name string) (*Template, error) {
	key := normalizeKey(name)
	if key == "" {
		return nil, fmt.Errorf("template name is required")
	}

	for _, tmpl := range templates {
		if tmpl != nil && normalizeKey(tmpl.Name) == key {
			return tmpl, nil
		}
	}
	for _, tmpl := range templates {
		if tmpl == nil {
			continue
		}
		for _, alias := range tmpl.Aliases {
			if normalizeKey(alias) == key {
				return tmpl, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
}

// nameRegistry tracks which path first claimed each name or alias.
type nameRegistry struct {
	owners map[string]string
}

func newNameRegistry() *nameRegistry {
	return &nameRegistry{owners: make(map[string]string)}
}

func (r *nameRegistry) claim(candidate any, path string) Diagnostics {
	fields, ok := candidateFields(candidate)
	if !ok {
		return nil
	}

	var diags Diagnostics
	if name, ok := fields[fieldName].(string); ok {
		if d := r.claimKey(name, joinPath(path, fieldName), "name"); d != nil {
			diags = append(diags, *d)
		}
	}
	items, _ := listItems(fields[fieldAliases])
	for j, item := range items {
		alias, ok := item.(string)
		if !ok {
			continue
		}
		if d := r.claimKey(alias, indexPath(joinPath(path, fieldAliases), j), "alias"); d != nil {
			diags = append(diags, *d)
		}
	}
	return diags
}

func (r *nameRegistry) claimKey(value, path, what string) *Diagnostic {
	key := normalizeKey(value)
	if key == "" {
		return nil
	}
	if owner, taken := r.owners[key]; taken {
		d := errorAt(path, fmt.Sprintf("%s %q is already used by %s", what, key, owner))
		return &d
	}
	r.owners[key] = path
	return nil
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func indexPath(prefix string, i int) string {
	return fmt.Sprintf("%s[%d]", prefix, i)
}
