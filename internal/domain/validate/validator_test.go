package validate

import (
	"reflect"
	"testing"

	"github.com/uniforge/uniforge/internal/domain/rules"
	"github.com/uniforge/uniforge/internal/shared/types"
)

func defaultValidator(t *testing.T) *Validator {
	t.Helper()
	set := rules.NewSet()
	if err := rules.RegisterDefaults(set); err != nil {
		t.Fatalf("failed to register rules: %v", err)
	}
	set.Freeze()
	return New(set)
}

func draftVariant(props map[string]interface{}) *types.PlatformVariant {
	return &types.PlatformVariant{
		Platform:       types.PlatformReact,
		SourceArtifact: "export function Button() {}",
		AppliedProps:   props,
		Violations:     []types.Violation{},
		Status:         types.VariantDraft,
	}
}

func TestValidateAccepts(t *testing.T) {
	v := defaultValidator(t)
	spec := &types.ComponentSpec{Kind: "button", ComplianceTags: []string{"a11y:aa"}}
	variant := v.Validate(spec, draftVariant(map[string]interface{}{
		"label": "Save",
		"size":  "md",
	}))

	if variant.Status != types.VariantAccepted {
		t.Errorf("expected accepted, got %s with %v", variant.Status, variant.Violations)
	}
	if len(variant.Violations) != 0 {
		t.Errorf("expected no violations, got %v", variant.Violations)
	}
}

func TestValidateBlockingRejects(t *testing.T) {
	v := defaultValidator(t)
	spec := &types.ComponentSpec{Kind: "button", ComplianceTags: []string{"a11y:aa"}}
	variant := v.Validate(spec, draftVariant(map[string]interface{}{
		"label": "Save",
		"size":  "tiny",
	}))

	if variant.Status != types.VariantRejected {
		t.Errorf("expected rejected, got %s", variant.Status)
	}
	if variant.SourceArtifact == "" {
		t.Error("rejection must preserve the draft artifact")
	}

	var found bool
	for _, violation := range variant.Violations {
		if violation.Rule == "min-touch-target" {
			found = true
			if violation.Severity != types.SeverityBlocking || violation.Origin != types.OriginValidation {
				t.Errorf("unexpected violation shape: %+v", violation)
			}
		}
	}
	if !found {
		t.Errorf("expected min-touch-target violation, got %v", variant.Violations)
	}
}

func TestValidateAdvisoryStillAccepts(t *testing.T) {
	v := defaultValidator(t)
	spec := &types.ComponentSpec{Kind: "button", ComplianceTags: []string{"a11y:aa"}}
	variant := v.Validate(spec, draftVariant(map[string]interface{}{
		"label":   "Save",
		"size":    "md",
		"variant": "ghost",
	}))

	if variant.Status != types.VariantAccepted {
		t.Errorf("advisory violations must not reject, got %s", variant.Status)
	}
	if len(variant.Violations) != 1 || variant.Violations[0].Rule != "contrast-variant" {
		t.Errorf("expected a single contrast-variant advisory, got %v", variant.Violations)
	}
}

func TestValidateMarkupSafety(t *testing.T) {
	v := defaultValidator(t)
	spec := &types.ComponentSpec{
		Kind:           "payment-form",
		ComplianceTags: []string{"a11y:aa", "security:high", "security:pci"},
	}
	variant := v.Validate(spec, draftVariant(map[string]interface{}{
		"label": "<script>alert(1)</script>Pay",
		"size":  "md",
	}))

	if variant.Status != types.VariantRejected {
		t.Errorf("expected rejected for injected markup, got %s", variant.Status)
	}

	var found bool
	for _, violation := range variant.Violations {
		if violation.Rule == "markup-safety" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected markup-safety violation, got %v", variant.Violations)
	}
}

func TestValidateMarkupRuleOnlyForHighSecurity(t *testing.T) {
	v := defaultValidator(t)
	spec := &types.ComponentSpec{Kind: "text", ComplianceTags: []string{"a11y:aa"}}
	variant := v.Validate(spec, draftVariant(map[string]interface{}{
		"content": "<b>bold</b>",
	}))

	for _, violation := range variant.Violations {
		if violation.Rule == "markup-safety" {
			t.Errorf("markup-safety must not apply without security:high: %v", violation)
		}
	}
}

func TestValidateIdempotent(t *testing.T) {
	v := defaultValidator(t)
	spec := &types.ComponentSpec{Kind: "button", ComplianceTags: []string{"a11y:aa"}}
	variant := draftVariant(map[string]interface{}{
		"size":    "tiny",
		"variant": "ghost",
	})

	first := v.Validate(spec, variant)
	firstViolations := append([]types.Violation{}, first.Violations...)
	firstStatus := first.Status

	again := v.Validate(spec, first)
	if again.Status != firstStatus {
		t.Errorf("status changed on re-validation: %s -> %s", firstStatus, again.Status)
	}
	if !reflect.DeepEqual(again.Violations, firstViolations) {
		t.Errorf("violations changed on re-validation:\n%v\n%v", firstViolations, again.Violations)
	}
}

func TestValidatePreservesExpansionViolations(t *testing.T) {
	v := defaultValidator(t)
	spec := &types.ComponentSpec{Kind: "button", ComplianceTags: []string{"a11y:aa"}}

	variant := draftVariant(map[string]interface{}{"label": "Save", "size": "md"})
	variant.Violations = []types.Violation{{
		Code:     types.CodeUnsupportedProp,
		Severity: types.SeverityAdvisory,
		Origin:   types.OriginExpansion,
		Message:  `prop "icon" is not supported by the flutter template`,
	}}

	out := v.Validate(spec, variant)
	if len(out.Violations) != 1 || out.Violations[0].Origin != types.OriginExpansion {
		t.Errorf("expansion violations must survive validation, got %v", out.Violations)
	}
	if out.Status != types.VariantAccepted {
		t.Errorf("advisory expansion violation must not reject, got %s", out.Status)
	}
}

func TestValidateSkipsExpansionRejected(t *testing.T) {
	v := defaultValidator(t)
	spec := &types.ComponentSpec{Kind: "button", ComplianceTags: []string{"a11y:aa"}}

	variant := &types.PlatformVariant{
		Platform:     "gamma",
		AppliedProps: map[string]interface{}{},
		Violations: []types.Violation{{
			Code:     types.CodeUnsupportedPlatform,
			Severity: types.SeverityBlocking,
			Origin:   types.OriginExpansion,
			Message:  "no template registered for button on gamma",
		}},
		Status: types.VariantRejected,
	}

	out := v.Validate(spec, variant)
	if len(out.Violations) != 1 {
		t.Errorf("expected the single expansion violation, got %v", out.Violations)
	}
	if out.Status != types.VariantRejected {
		t.Errorf("expected rejected, got %s", out.Status)
	}
}

func TestValidateNativeTagShortCircuit(t *testing.T) {
	v := defaultValidator(t)
	spec := &types.ComponentSpec{Kind: "button", ComplianceTags: []string{"a11y:aa"}}

	// No label, but the template natively guarantees the a11y tag
	variant := draftVariant(map[string]interface{}{"size": "md"})
	variant.NativeTags = []string{"a11y:aa"}

	out := v.Validate(spec, variant)
	for _, violation := range out.Violations {
		if violation.Rule == "accessible-label" {
			t.Errorf("accessible-label must short-circuit on native tag: %v", violation)
		}
	}
	if out.Status != types.VariantAccepted {
		t.Errorf("expected accepted, got %s with %v", out.Status, out.Violations)
	}
}
