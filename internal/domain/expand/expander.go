// Package expand produces per-platform draft variants from a canonical
// ComponentSpec. Expansion never fails a whole job: a platform without a
// template degrades to a rejected variant while its siblings continue.
package expand

import (
	"errors"
	"fmt"
	"sort"

	"github.com/uniforge/uniforge/internal/domain/template"
	"github.com/uniforge/uniforge/internal/shared/types"
)

// Expander renders draft variants against the template registry
type Expander struct {
	templates *template.Registry
}

// New creates an expander backed by a frozen template registry
func New(templates *template.Registry) *Expander {
	return &Expander{templates: templates}
}

// Expand produces the draft variant for one platform. The spec is
// read-only; all outcomes, including a missing template, are expressed as
// variant state rather than errors.
func (e *Expander) Expand(spec *types.ComponentSpec, platform types.Platform) *types.PlatformVariant {
	variant := &types.PlatformVariant{
		Platform:     platform,
		AppliedProps: make(map[string]interface{}),
		Violations:   []types.Violation{},
		Status:       types.VariantDraft,
	}

	def, err := e.templates.Lookup(spec.Kind, platform)
	if err != nil {
		if errors.Is(err, types.ErrTemplateNotFound) {
			variant.Status = types.VariantRejected
			variant.Violations = append(variant.Violations, types.Violation{
				Code:     types.CodeUnsupportedPlatform,
				Severity: types.SeverityBlocking,
				Origin:   types.OriginExpansion,
				Message:  fmt.Sprintf("no template registered for %s on %s", spec.Kind, platform),
			})
			return variant
		}
		variant.Status = types.VariantRejected
		variant.Violations = append(variant.Violations, types.Violation{
			Code:     types.CodeRenderFailed,
			Severity: types.SeverityBlocking,
			Origin:   types.OriginExpansion,
			Message:  err.Error(),
		})
		return variant
	}

	variant.NativeTags = def.SatisfiedTags

	// Intersect spec props with the template's supported set. Unsupported
	// props become advisory violations, recorded rather than silently
	// dropped, so downstream checks and the caller both see the gap.
	unsupported := make([]string, 0)
	for name, value := range spec.Props {
		if def.Supports(name) {
			variant.AppliedProps[name] = value
		} else {
			unsupported = append(unsupported, name)
		}
	}
	sort.Strings(unsupported)
	for _, name := range unsupported {
		variant.Violations = append(variant.Violations, types.Violation{
			Code:     types.CodeUnsupportedProp,
			Severity: types.SeverityAdvisory,
			Origin:   types.OriginExpansion,
			Message:  fmt.Sprintf("prop %q is not supported by the %s template", name, platform),
		})
	}

	artifact, err := def.Render(spec, variant.AppliedProps)
	if err != nil {
		variant.Status = types.VariantRejected
		variant.Violations = append(variant.Violations, types.Violation{
			Code:     types.CodeRenderFailed,
			Severity: types.SeverityBlocking,
			Origin:   types.OriginExpansion,
			Message:  err.Error(),
		})
		return variant
	}

	variant.SourceArtifact = artifact
	return variant
}
