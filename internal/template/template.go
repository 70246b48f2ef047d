// Package template resolves {name} placeholders in query templates.
package template

import (
	"regexp"
	"strings"

	"duckgs/internal/domain"
)

var placeholderPattern = regexp.MustCompile(`\{(.+?)\}`)

// Placeholders returns the placeholder names found in the template, in
// order of first appearance. Repeated placeholders are reported once.
func Placeholders(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Format substitutes every bound placeholder in the template. If any
// placeholder has no binding, the template is returned verbatim: failed
// substitution is a silent no-op at this layer, never an error.
func Format(template string, bindings map[string]string) string {
	for _, name := range Placeholders(template) {
		if _, ok := bindings[name]; !ok {
			return template
		}
	}
	// Single pass so substituted values are never re-scanned for markers.
	return placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(m, "{"), "}")
		return bindings[name]
	})
}

// Resolver fills placeholders from a binding set, falling back to the
// Prompter for any name left unbound. In strict mode an unbound name is a
// fatal error instead of a prompt.
type Resolver struct {
	Prompter domain.Prompter
	Strict   bool
}

// Resolve returns the template with every placeholder substituted. The
// supplied bindings are not mutated.
func (r *Resolver) Resolve(template string, bindings map[string]string) (string, error) {
	merged := make(map[string]string, len(bindings))
	for k, v := range bindings {
		merged[k] = v
	}

	for _, name := range Placeholders(template) {
		if _, ok := merged[name]; ok {
			continue
		}
		if r.Strict || r.Prompter == nil {
			return "", domain.ErrUnresolved(name)
		}
		value, err := r.Prompter.Ask(name)
		if err != nil {
			return "", err
		}
		merged[name] = value
	}

	return Format(template, merged), nil
}
