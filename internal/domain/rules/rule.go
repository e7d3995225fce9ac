// Package rules holds the declarative constraint rule set applied to every
// draft variant. Rules are pure, stateless predicates; the set is
// append-only, loaded at startup, and evaluated in registration order so
// violation ordering is reproducible.
package rules

import "github.com/uniforge/uniforge/internal/shared/types"

// CheckFunc is a pure predicate over a draft variant. It returns ok=false
// with a human-readable detail when the rule is violated. Check functions
// must not perform I/O; validation is fully deterministic and repeatable.
type CheckFunc func(spec *types.ComponentSpec, variant *types.PlatformVariant) (ok bool, detail string)

// Rule is one declarative compliance constraint.
type Rule struct {
	ID          string         `json:"id"`
	Severity    types.Severity `json:"severity"`
	Description string         `json:"description"`

	// Tag names the compliance tag this rule enforces. A template that
	// natively satisfies the tag short-circuits the rule for its variants.
	Tag string `json:"tag,omitempty"`

	// AppliesTo limits the rule to specs carrying the given compliance tag.
	// Empty means the rule applies to every spec.
	AppliesTo string `json:"applies_to,omitempty"`

	Check CheckFunc `json:"-"`
}

// Applies reports whether the rule should be evaluated for this variant
func (r *Rule) Applies(spec *types.ComponentSpec, variant *types.PlatformVariant) bool {
	if r.AppliesTo != "" && !spec.HasTag(r.AppliesTo) {
		return false
	}
	if r.Tag != "" && variant.HasNativeTag(r.Tag) {
		return false
	}
	return true
}
