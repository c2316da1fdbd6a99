// Package templates provides command template validation and loading.
package templates

// Template represents a single command template that passed validation.
type Template struct {
	Name        string   `yaml:"name" json:"name"`
	Command     string   `yaml:"command" json:"command"`
	Description string   `yaml:"description" json:"description"`
	Aliases     []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Source      string   `yaml:"-" json:"source,omitempty"` // file path, "config" or "builtin"
}

// Placeholder is the token replaced by caller-supplied arguments at run time.
const Placeholder = "$@"

// Names returns the template name followed by its aliases.
func (t *Template) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, 1+len(t.Aliases))
	names = append(names, t.Name)
	return append(names, t.Aliases...)
}

// HasPlaceholder reports whether the command takes caller arguments.
func (t *Template) HasPlaceholder() bool {
	return t != nil && PlaceholderCount(t.Command) > 0
}
