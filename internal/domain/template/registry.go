package template

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/uniforge/uniforge/internal/shared/id"
	"github.com/uniforge/uniforge/internal/shared/types"
)

// Registry holds template definitions keyed by (kind, platform).
// Registration happens only during process initialization; after Freeze the
// registry is read-only and safely shared across concurrent units without
// locking on the lookup path.
type Registry struct {
	definitions sync.Map
	count       int64
	frozen      atomic.Bool
}

// NewRegistry creates an empty template registry
func NewRegistry() *Registry {
	return &Registry{}
}

func key(kind types.Kind, platform types.Platform) string {
	return fmt.Sprintf("%s/%s", kind, platform)
}

// Register adds a definition. A definition for an already-registered
// (kind, platform) pair replaces the previous one, so seeded packs can
// override built-in defaults. Fails once the registry is frozen.
func (r *Registry) Register(def *Definition) error {
	if r.frozen.Load() {
		return types.ErrRegistryFrozen
	}
	if def.Kind == "" || def.Platform == "" {
		return fmt.Errorf("definition requires kind and platform")
	}
	if err := def.Compile(); err != nil {
		return err
	}
	if def.ID == "" {
		def.ID = id.NewTemplateID().String()
	}
	if def.Version == "" {
		def.Version = "1.0.0"
	}

	if _, existed := r.definitions.Load(key(def.Kind, def.Platform)); !existed {
		atomic.AddInt64(&r.count, 1)
	}
	r.definitions.Store(key(def.Kind, def.Platform), def)
	return nil
}

// Freeze marks the end of initialization. Further Register calls fail.
func (r *Registry) Freeze() {
	r.frozen.Store(true)
}

// Lookup retrieves the definition for a (kind, platform) pair. A missing
// pair fails fast so the orchestrator can mark the platform rejected
// instead of crashing the job.
func (r *Registry) Lookup(kind types.Kind, platform types.Platform) (*Definition, error) {
	val, ok := r.definitions.Load(key(kind, platform))
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", types.ErrTemplateNotFound, kind, platform)
	}
	return val.(*Definition), nil
}

// List returns all definitions sorted by kind then platform
func (r *Registry) List() []*Definition {
	var defs []*Definition
	r.definitions.Range(func(_, value interface{}) bool {
		defs = append(defs, value.(*Definition))
		return true
	})
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].Kind != defs[j].Kind {
			return defs[i].Kind < defs[j].Kind
		}
		return defs[i].Platform < defs[j].Platform
	})
	return defs
}

// Platforms returns the distinct platforms with at least one definition
func (r *Registry) Platforms() []types.Platform {
	seen := make(map[types.Platform]bool)
	r.definitions.Range(func(_, value interface{}) bool {
		seen[value.(*Definition).Platform] = true
		return true
	})
	platforms := make([]types.Platform, 0, len(seen))
	for p := range seen {
		platforms = append(platforms, p)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })
	return platforms
}

// Len returns the number of registered definitions
func (r *Registry) Len() int {
	return int(atomic.LoadInt64(&r.count))
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	perPlatform := make(map[string]int)
	r.definitions.Range(func(_, value interface{}) bool {
		perPlatform[string(value.(*Definition).Platform)]++
		return true
	})
	return map[string]interface{}{
		"total_templates": r.Len(),
		"platforms":       perPlatform,
		"frozen":          r.frozen.Load(),
	}
}
