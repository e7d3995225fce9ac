package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/uniforge/uniforge/internal/shared/types"
)

// Hasher provides deterministic hashing for request identity
type Hasher struct{}

// DefaultHasher returns the default SHA-256 hasher
func DefaultHasher() *Hasher {
	return &Hasher{}
}

// Hash computes a hex-encoded SHA-256 hash of the input data
func (h *Hasher) Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON computes a hash of a JSON-serializable object.
// Map keys are marshaled in sorted order, so equal objects hash equally.
func (h *Hasher) HashJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return h.Hash(data), nil
}

// RequestIdentifier derives the deterministic identity of a generation
// request, used to coalesce duplicate in-flight submissions.
type RequestIdentifier struct {
	hasher *Hasher
}

// NewRequestIdentifier creates a new request identifier
func NewRequestIdentifier(hasher *Hasher) *RequestIdentifier {
	if hasher == nil {
		hasher = DefaultHasher()
	}
	return &RequestIdentifier{hasher: hasher}
}

// GenerateHash hashes the canonical (spec, platforms) tuple. The platform
// list is sorted first so submission order does not change identity.
func (ri *RequestIdentifier) GenerateHash(spec *types.ComponentSpec, platforms []types.Platform) (string, error) {
	sorted := make([]string, len(platforms))
	for i, p := range platforms {
		sorted[i] = string(p)
	}
	sort.Strings(sorted)

	return ri.hasher.HashJSON(map[string]interface{}{
		"kind":            spec.Kind,
		"props":           spec.Props,
		"compliance_tags": spec.ComplianceTags,
		"platforms":       sorted,
	})
}

// ShortHash returns an 8-character hash for display
func ShortHash(fullHash string) string {
	if len(fullHash) < 8 {
		return fullHash
	}
	return fullHash[:8]
}
