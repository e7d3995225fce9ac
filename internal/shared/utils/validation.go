package utils

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/uniforge/uniforge/internal/shared/types"
)

// Request size limits
const (
	MaxHintLength = 16 * 1024 // 16KB - natural-language hint size limit
	MaxPropCount  = 64
	MaxPropKeyLen = 128
	MaxStringProp = 8 * 1024
	MaxPlatforms  = 16
	MaxTagCount   = 20
	MaxTagLength  = 64
	MaxIDLength   = 128
)

// SafeIDPattern allows alphanumeric, hyphens, underscores
var SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateID validates an identifier path parameter
func ValidateID(id, field string) error {
	if id == "" {
		return fmt.Errorf("%s is required", field)
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("%s exceeds maximum length of %d", field, MaxIDLength)
	}
	if !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters", field)
	}
	return nil
}

// ValidateSubmitRequest enforces structural limits on a generation request
// before it reaches the resolver. Semantic validation (kind, prop types)
// belongs to the resolver.
func ValidateSubmitRequest(req *types.SubmitRequest) error {
	if req.Kind == "" && req.NaturalLanguageHint == "" {
		return fmt.Errorf("either kind or natural_language_hint is required")
	}
	if len(req.NaturalLanguageHint) > MaxHintLength {
		return fmt.Errorf("natural_language_hint exceeds %d bytes", MaxHintLength)
	}
	if !utf8.ValidString(req.NaturalLanguageHint) {
		return fmt.Errorf("natural_language_hint is not valid UTF-8")
	}
	if len(req.Platforms) == 0 {
		return fmt.Errorf("at least one platform is required")
	}
	if len(req.Platforms) > MaxPlatforms {
		return fmt.Errorf("platform count exceeds %d", MaxPlatforms)
	}
	if len(req.Props) > MaxPropCount {
		return fmt.Errorf("prop count exceeds %d", MaxPropCount)
	}
	for k, v := range req.Props {
		if len(k) > MaxPropKeyLen {
			return fmt.Errorf("prop key %q exceeds %d bytes", ShortHash(k), MaxPropKeyLen)
		}
		if s, ok := v.(string); ok && len(s) > MaxStringProp {
			return fmt.Errorf("prop %q exceeds %d bytes", k, MaxStringProp)
		}
	}
	if len(req.ComplianceTags) > MaxTagCount {
		return fmt.Errorf("compliance tag count exceeds %d", MaxTagCount)
	}
	for _, tag := range req.ComplianceTags {
		if tag == "" || len(tag) > MaxTagLength {
			return fmt.Errorf("invalid compliance tag")
		}
	}
	return nil
}

// DedupePlatforms removes duplicate platforms while preserving request order
func DedupePlatforms(raw []string) []types.Platform {
	seen := make(map[string]bool, len(raw))
	out := make([]types.Platform, 0, len(raw))
	for _, p := range raw {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, types.Platform(p))
	}
	return out
}
