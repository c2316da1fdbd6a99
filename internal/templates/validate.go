package templates

import (
	"fmt"
	"strings"
)

const (
	fieldName        = "name"
	fieldCommand     = "command"
	fieldDescription = "description"
	fieldAliases     = "aliases"
)

// Validate checks a loosely-typed template candidate and returns its
// diagnostics in check order. path labels the candidate's position, for
// example "templates[0]". Validate never panics on malformed input.
func Validate(candidate any, path string) Diagnostics {
	fields, ok := candidateFields(candidate)
	if !ok {
		return Diagnostics{errorAt(path, fmt.Sprintf("template must be an object, got %s", describeType(candidate)))}
	}

	var diags Diagnostics
	add := func(d *Diagnostic) {
		if d != nil {
			diags = append(diags, *d)
		}
	}

	_, nameDiag := requiredString(fields, fieldName, path)
	add(nameDiag)
	command, commandDiag := requiredString(fields, fieldCommand, path)
	add(commandDiag)
	_, descDiag := requiredString(fields, fieldDescription, path)
	add(descDiag)

	if commandDiag == nil {
		commandPath := joinPath(path, fieldCommand)
		if count := PlaceholderCount(command); count > 1 {
			add(&Diagnostic{
				Path:     commandPath,
				Message:  fmt.Sprintf("command may contain at most one %s placeholder (found %d)", Placeholder, count),
				Severity: SeverityError,
			})
		}
		if strings.HasPrefix(strings.TrimSpace(command), Placeholder) {
			add(&Diagnostic{
				Path:     commandPath,
				Message:  fmt.Sprintf("command starts with %s; expected a command before the placeholder", Placeholder),
				Severity: SeverityWarning,
			})
		}
		if finding := scanCommand(command); finding != nil {
			add(&Diagnostic{
				Path:     commandPath,
				Message:  finding.message(),
				Severity: SeverityError,
			})
		}
	}

	return append(diags, checkAliases(fields, path)...)
}

// Decode validates candidate and returns the typed template when no
// error-severity diagnostic was found. Warnings are returned alongside the
// template so the caller can decide whether to accept it.
func Decode(candidate any, path string) (*Template, Diagnostics) {
	diags := Validate(candidate, path)
	if diags.HasErrors() {
		return nil, diags
	}

	fields, _ := candidateFields(candidate)
	tmpl := &Template{
		Name:        strings.TrimSpace(stringField(fields, fieldName)),
		Command:     strings.TrimSpace(stringField(fields, fieldCommand)),
		Description: strings.TrimSpace(stringField(fields, fieldDescription)),
		Aliases:     trimmedStrings(fields[fieldAliases]),
		Tags:        trimmedStrings(fields["tags"]),
	}
	if src, ok := candidate.(*Template); ok && src != nil {
		tmpl.Source = src.Source
	}
	return tmpl, diags
}

// PlaceholderCount returns the number of $@ tokens in command.
func PlaceholderCount(command string) int {
	return strings.Count(command, Placeholder)
}

// HasPlaceholder reports whether command contains the $@ token.
func HasPlaceholder(command string) bool {
	return strings.Contains(command, Placeholder)
}

func requiredString(fields map[string]any, key, path string) (string, *Diagnostic) {
	fieldPath := joinPath(path, key)
	raw, present := fields[key]
	if !present || raw == nil {
		d := errorAt(fieldPath, key+" is required")
		return "", &d
	}
	value, ok := raw.(string)
	if !ok {
		d := errorAt(fieldPath, fmt.Sprintf("%s must be a string, got %s", key, describeType(raw)))
		return "", &d
	}
	if strings.TrimSpace(value) == "" {
		d := errorAt(fieldPath, key+" is required")
		return "", &d
	}
	return value, nil
}

func checkAliases(fields map[string]any, path string) Diagnostics {
	raw, present := fields[fieldAliases]
	if !present || raw == nil {
		return nil
	}

	aliasesPath := joinPath(path, fieldAliases)
	items, ok := listItems(raw)
	if !ok {
		return Diagnostics{errorAt(aliasesPath, fmt.Sprintf("aliases must be a list of strings, got %s", describeType(raw)))}
	}

	var diags Diagnostics
	for i, item := range items {
		itemPath := indexPath(aliasesPath, i)
		alias, ok := item.(string)
		if !ok {
			diags = append(diags, errorAt(itemPath, fmt.Sprintf("aliases entries must be strings, got %s", describeType(item))))
			continue
		}
		if strings.TrimSpace(alias) == "" {
			diags = append(diags, errorAt(itemPath, "aliases entries must not be empty"))
		}
	}
	return diags
}

// candidateFields normalizes the accepted input shapes into a string-keyed map.
func candidateFields(candidate any) (map[string]any, bool) {
	switch v := candidate.(type) {
	case map[string]any:
		return v, true
	case map[any]any:
		fields := make(map[string]any, len(v))
		for key, value := range v {
			if name, ok := key.(string); ok {
				fields[name] = value
			}
		}
		return fields, true
	case map[string]string:
		fields := make(map[string]any, len(v))
		for key, value := range v {
			fields[key] = value
		}
		return fields, true
	case *Template:
		if v == nil {
			return nil, false
		}
		return v.fields(), true
	case Template:
		return v.fields(), true
	default:
		return nil, false
	}
}

func (t *Template) fields() map[string]any {
	fields := map[string]any{
		fieldName:        t.Name,
		fieldCommand:     t.Command,
		fieldDescription: t.Description,
	}
	if t.Aliases != nil {
		fields[fieldAliases] = t.Aliases
	}
	if t.Tags != nil {
		fields["tags"] = t.Tags
	}
	return fields
}

func stringField(fields map[string]any, key string) string {
	value, _ := fields[key].(string)
	return value
}

func listItems(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items, true
	}
	return nil, false
}

func trimmedStrings(raw any) []string {
	items, _ := listItems(raw)
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func errorAt(path, message string) Diagnostic {
	return Diagnostic{Path: path, Message: message, Severity: SeverityError}
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

func describeType(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number"
	case []any, []string:
		return "list"
	case map[string]any, map[any]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}
