// Package resolve turns a generation request into a canonical
// ComponentSpec. The kind registry is closed; natural-language hints are
// mapped by deterministic keyword lookup or delegated to an external
// collaborator whose suggestion is treated as untrusted input.
package resolve

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/uniforge/uniforge/internal/infrastructure/logging"
	"github.com/uniforge/uniforge/internal/shared/types"
)

// Suggestion is a structured {kind, props} proposal from the
// natural-language collaborator. It gets the same validation as a
// structured request.
type Suggestion struct {
	Kind  string                 `json:"kind"`
	Props map[string]interface{} `json:"props"`
}

// Collaborator resolves free text into a structured suggestion. The
// ML/NLP step itself is out of scope for the engine.
type Collaborator interface {
	Suggest(ctx context.Context, hint string) (*Suggestion, error)
}

// Resolver normalizes requests into immutable ComponentSpecs. Resolution
// has no side effects; the only external call is the optional collaborator.
type Resolver struct {
	collaborator Collaborator
	logger       *logging.Logger
}

// New creates a resolver. A nil collaborator disables delegation; hints
// then fall back to the local keyword lookup.
func New(collaborator Collaborator, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Resolver{
		collaborator: collaborator,
		logger:       logger,
	}
}

// Resolve validates and normalizes a request into a ComponentSpec.
// Fails with ResolutionError (UnknownKind or InvalidProp); any failure is
// fatal to the job before per-platform work starts.
func (r *Resolver) Resolve(ctx context.Context, req *types.SubmitRequest) (*types.ComponentSpec, error) {
	kindName := req.Kind
	props := make(map[string]interface{}, len(req.Props))
	for k, v := range req.Props {
		props[k] = v
	}

	if kindName == "" && req.NaturalLanguageHint != "" {
		kindName = r.resolveHint(ctx, req.NaturalLanguageHint, props)
	}
	if kindName == "" {
		return nil, &types.ResolutionError{
			Code:    types.ResolutionUnknownKind,
			Message: "no component kind matched the request",
		}
	}

	kind := types.Kind(kindName)
	ks, ok := kindTable[kind]
	if !ok {
		return nil, types.NewUnknownKind(kindName)
	}

	normalized, err := normalizeProps(ks, props)
	if err != nil {
		return nil, err
	}

	return &types.ComponentSpec{
		Kind:           kind,
		Props:          normalized,
		ComplianceTags: mergeTags(req.ComplianceTags, ks.ImpliedTags),
	}, nil
}

// resolveHint asks the collaborator for a suggestion, falling back to the
// deterministic keyword lookup. Suggested props never override props the
// caller supplied explicitly.
func (r *Resolver) resolveHint(ctx context.Context, hint string, props map[string]interface{}) string {
	if r.collaborator != nil {
		suggestion, err := r.collaborator.Suggest(ctx, hint)
		if err != nil {
			r.logger.Warn("Collaborator suggestion failed, using keyword lookup",
				zap.Error(err),
			)
		} else if suggestion != nil && suggestion.Kind != "" {
			for k, v := range suggestion.Props {
				if _, exists := props[k]; !exists {
					props[k] = v
				}
			}
			return suggestion.Kind
		}
	}
	return string(matchKeywords(hint))
}

// normalizeProps types, validates, and defaults props against the kind
// schema. Unknown props and bad values fail with InvalidProp; required
// props are always present in the result.
func normalizeProps(ks kindSpec, props map[string]interface{}) (map[string]interface{}, error) {
	// Provided names are scanned in sorted order so the reported prop is
	// the same on every attempt
	provided := make([]string, 0, len(props))
	for name := range props {
		provided = append(provided, name)
	}
	sort.Strings(provided)
	for _, name := range provided {
		if _, known := ks.Props[name]; !known {
			return nil, types.NewInvalidProp(name, "not a recognized prop for this kind")
		}
	}

	// Schema order is sorted so error reporting is deterministic
	names := make([]string, 0, len(ks.Props))
	for name := range ks.Props {
		names = append(names, name)
	}
	sort.Strings(names)

	normalized := make(map[string]interface{}, len(names))
	for _, name := range names {
		spec := ks.Props[name]
		raw, provided := props[name]
		if !provided {
			if spec.Required {
				normalized[name] = spec.Default
			}
			continue
		}
		value, err := coerce(name, spec, raw)
		if err != nil {
			return nil, types.NewInvalidProp(name, err.Error())
		}
		normalized[name] = value
	}
	return normalized, nil
}

// mergeTags unions requested and implied compliance tags, sorted for
// deterministic spec identity.
func mergeTags(requested, implied []string) []string {
	seen := make(map[string]bool, len(requested)+len(implied))
	out := make([]string, 0, len(requested)+len(implied))
	for _, tag := range append(append([]string{}, requested...), implied...) {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
