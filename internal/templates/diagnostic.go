package templates

import (
	"fmt"
	"strings"
)

// Severity distinguishes hard errors from warnings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic describes one validation finding for a template field.
type Diagnostic struct {
	Path     string   `json:"path"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	File     string   `json:"file,omitempty"`
}

func (d Diagnostic) String() string {
	if d.File != "" {
		return fmt.Sprintf("%s: %s: %s", d.File, d.Path, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Path, d.Message)
}

// IsWarning reports whether the diagnostic is a warning.
func (d Diagnostic) IsWarning() bool {
	return d.Severity == SeverityWarning
}

// Diagnostics is an ordered list of findings. An empty list means the
// template is acceptable; any entry, warnings included, means it must not be
// used as-is.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic has error severity.
func (d Diagnostics) HasErrors() bool {
	for _, diag := range d {
		if !diag.IsWarning() {
			return true
		}
	}
	return false
}

// Errors returns the error-severity diagnostics.
func (d Diagnostics) Errors() Diagnostics {
	return d.filter(func(diag Diagnostic) bool { return !diag.IsWarning() })
}

// Warnings returns the warning-severity diagnostics.
func (d Diagnostics) Warnings() Diagnostics {
	return d.filter(Diagnostic.IsWarning)
}

// WithFile returns a copy of the diagnostics attributed to file.
func (d Diagnostics) WithFile(file string) Diagnostics {
	if len(d) == 0 {
		return nil
	}
	out := make(Diagnostics, len(d))
	for i, diag := range d {
		diag.File = file
		out[i] = diag
	}
	return out
}

// Err returns nil for an empty list and a *ValidationError otherwise.
func (d Diagnostics) Err() error {
	if len(d) == 0 {
		return nil
	}
	return &ValidationError{Diagnostics: d}
}

func (d Diagnostics) filter(keep func(Diagnostic) bool) Diagnostics {
	var out Diagnostics
	for _, diag := range d {
		if keep(diag) {
			out = append(out, diag)
		}
	}
	return out
}

// ValidationError carries the diagnostics that rejected one or more templates.
type ValidationError struct {
	Diagnostics Diagnostics
}

func (e *ValidationError) Error() string {
	switch len(e.Diagnostics) {
	case 0:
		return "template validation failed"
	case 1:
		return "template validation failed: " + e.Diagnostics[0].String()
	}

	lines := make([]string, 0, len(e.Diagnostics))
	for _, diag := range e.Diagnostics {
		lines = append(lines, diag.String())
	}
	return fmt.Sprintf("template validation failed with %d problems:\n  %s",
		len(e.Diagnostics), strings.Join(lines, "\n  "))
}
