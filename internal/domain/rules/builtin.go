package rules

import (
	"fmt"
	"sort"

	"github.com/microcosm-cc/bluemonday"

	"github.com/uniforge/uniforge/internal/shared/types"
)

// interactiveKinds are kinds a user operates directly; they must carry an
// accessible label.
var interactiveKinds = map[types.Kind]bool{
	"button":       true,
	"input":        true,
	"select":       true,
	"checkbox":     true,
	"payment-form": true,
}

// undersized lists size values below the minimum touch target
var undersized = map[string]bool{
	"tiny": true,
	"xs":   true,
}

// strictMarkup strips all markup; used to detect injected HTML in
// user-supplied string props.
var strictMarkup = bluemonday.StrictPolicy()

// Defaults returns the built-in constraint rules in evaluation order.
func Defaults() []Rule {
	return []Rule{
		{
			ID:          "accessible-label",
			Severity:    types.SeverityBlocking,
			Description: "Interactive components must carry a non-empty accessible label",
			Tag:         "a11y:aa",
			Check: func(spec *types.ComponentSpec, v *types.PlatformVariant) (bool, string) {
				if !interactiveKinds[spec.Kind] {
					return true, ""
				}
				if s, ok := v.AppliedProps["label"].(string); ok && s != "" {
					return true, ""
				}
				if s, ok := v.AppliedProps["placeholder"].(string); ok && s != "" {
					return true, ""
				}
				return false, fmt.Sprintf("%s has no accessible label", spec.Kind)
			},
		},
		{
			ID:          "min-touch-target",
			Severity:    types.SeverityBlocking,
			Description: "Component size must meet the minimum touch target",
			Check: func(spec *types.ComponentSpec, v *types.PlatformVariant) (bool, string) {
				size, ok := v.AppliedProps["size"].(string)
				if !ok || !undersized[size] {
					return true, ""
				}
				return false, fmt.Sprintf("size %q is below the minimum touch target; smallest allowed is \"sm\"", size)
			},
		},
		{
			ID:          "contrast-variant",
			Severity:    types.SeverityAdvisory,
			Description: "Ghost variants risk insufficient contrast on light backgrounds",
			Tag:         "a11y:aa",
			Check: func(spec *types.ComponentSpec, v *types.PlatformVariant) (bool, string) {
				if variant, ok := v.AppliedProps["variant"].(string); ok && variant == "ghost" {
					return false, "ghost variant may not meet WCAG AA contrast; verify against the target background"
				}
				return true, ""
			},
		},
		{
			ID:          "markup-safety",
			Severity:    types.SeverityBlocking,
			Description: "String props on high-security components must be markup-free",
			Tag:         "security:high",
			AppliesTo:   "security:high",
			Check: func(spec *types.ComponentSpec, v *types.PlatformVariant) (bool, string) {
				// Sorted so the reported prop is stable across re-validation
				names := make([]string, 0, len(v.AppliedProps))
				for name := range v.AppliedProps {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					s, ok := v.AppliedProps[name].(string)
					if !ok {
						continue
					}
					if strictMarkup.Sanitize(s) != s {
						return false, fmt.Sprintf("prop %q contains markup", name)
					}
				}
				return true, ""
			},
		},
		{
			ID:          "prop-budget",
			Severity:    types.SeverityAdvisory,
			Description: "Components with many props are hard to keep consistent across platforms",
			Check: func(spec *types.ComponentSpec, v *types.PlatformVariant) (bool, string) {
				const budget = 12
				if len(v.AppliedProps) > budget {
					return false, fmt.Sprintf("%d props applied, budget is %d", len(v.AppliedProps), budget)
				}
				return true, ""
			},
		},
	}
}

// RegisterDefaults adds the built-in rules to a set
func RegisterDefaults(set *Set) error {
	for _, rule := range Defaults() {
		if err := set.Add(rule); err != nil {
			return err
		}
	}
	return nil
}
