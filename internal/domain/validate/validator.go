// Package validate applies the constraint rule set to draft variants.
// Validation is pure and idempotent: re-validating a variant yields an
// identical violation list and status.
package validate

import (
	"github.com/uniforge/uniforge/internal/domain/rules"
	"github.com/uniforge/uniforge/internal/shared/types"
)

// Validator evaluates every rule in registration order
type Validator struct {
	rules *rules.Set
}

// New creates a validator backed by a frozen rule set
func New(set *rules.Set) *Validator {
	return &Validator{rules: set}
}

// Validate applies the rule set to a variant. Blocking failures force
// rejected; advisory failures coexist with accepted. The draft artifact is
// never mutated, so a rejected variant keeps its source for diagnostics.
//
// A variant already rejected during expansion (missing template, render
// failure) stays rejected; its rules are still evaluated only when an
// artifact exists, keeping re-validation of any variant stable.
func (v *Validator) Validate(spec *types.ComponentSpec, variant *types.PlatformVariant) *types.PlatformVariant {
	// A variant rejected during expansion has no artifact to check
	if variant.Status == types.VariantRejected && variant.SourceArtifact == "" {
		return variant
	}

	// Expansion-stage violations survive re-validation unchanged;
	// validation-stage findings are recomputed from scratch.
	violations := make([]types.Violation, 0, len(variant.Violations))
	for _, violation := range variant.Violations {
		if violation.Origin != types.OriginValidation {
			violations = append(violations, violation)
		}
	}

	rejected := variant.Status == types.VariantRejected

	for _, rule := range v.rules.Rules() {
		if !rule.Applies(spec, variant) {
			continue
		}
		ok, detail := rule.Check(spec, variant)
		if ok {
			continue
		}
		violations = append(violations, types.Violation{
			Rule:     rule.ID,
			Code:     types.CodeRuleFailed,
			Severity: rule.Severity,
			Origin:   types.OriginValidation,
			Message:  detail,
		})
		if rule.Severity == types.SeverityBlocking {
			rejected = true
		}
	}

	variant.Violations = violations
	if rejected {
		variant.Status = types.VariantRejected
	} else {
		variant.Status = types.VariantAccepted
	}
	return variant
}
