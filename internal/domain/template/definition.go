package template

import (
	"fmt"
	"sort"
	"strings"
	texttemplate "text/template"

	"github.com/uniforge/uniforge/internal/shared/types"
)

// Definition holds the parameterized emission template for one
// (kind, platform) pair plus its declared capability set. Definitions are
// registered at startup and never mutated during request handling.
type Definition struct {
	ID             string         `json:"id"`
	Kind           types.Kind     `json:"kind"`
	Platform       types.Platform `json:"platform"`
	Version        string         `json:"version"`
	SupportedProps []string       `json:"supported_props"`
	SatisfiedTags  []string       `json:"satisfied_tags,omitempty"`
	Body           string         `json:"-"`

	compiled *texttemplate.Template
}

// renderContext is the data passed to a definition body
type renderContext struct {
	Kind      string
	Name      string
	Platform  string
	Props     map[string]interface{}
	PropNames []string
	Tags      []string
}

var templateFuncs = texttemplate.FuncMap{
	"join": strings.Join,
	"label": func(props map[string]interface{}) string {
		for _, key := range []string{"label", "title", "content"} {
			if s, ok := props[key].(string); ok {
				return s
			}
		}
		return ""
	},
}

// Compile parses the template body. Must be called before Render; the
// registry compiles definitions at registration time.
func (d *Definition) Compile() error {
	name := fmt.Sprintf("%s/%s", d.Kind, d.Platform)
	tmpl, err := texttemplate.New(name).Funcs(templateFuncs).Parse(d.Body)
	if err != nil {
		return fmt.Errorf("failed to compile template %s: %w", name, err)
	}
	d.compiled = tmpl
	return nil
}

// Supports checks whether the definition declares support for a prop
func (d *Definition) Supports(prop string) bool {
	for _, p := range d.SupportedProps {
		if p == prop {
			return true
		}
	}
	return false
}

// Render emits the source artifact for the given applied props. Rendering
// is deterministic: template map ranges iterate in sorted key order and
// PropNames is pre-sorted.
func (d *Definition) Render(spec *types.ComponentSpec, props map[string]interface{}) (string, error) {
	if d.compiled == nil {
		if err := d.Compile(); err != nil {
			return "", err
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	ctx := renderContext{
		Kind:      string(d.Kind),
		Name:      componentName(d.Kind),
		Platform:  string(d.Platform),
		Props:     props,
		PropNames: names,
		Tags:      spec.ComplianceTags,
	}

	var sb strings.Builder
	if err := d.compiled.Execute(&sb, ctx); err != nil {
		return "", fmt.Errorf("failed to render %s/%s: %w", d.Kind, d.Platform, err)
	}
	return sb.String(), nil
}

// componentName converts a kind like "payment-form" to "PaymentForm"
func componentName(kind types.Kind) string {
	parts := strings.Split(string(kind), "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, "")
}
