package rules

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/uniforge/uniforge/internal/shared/types"
)

// Set is the ordered, append-only constraint rule collection. Rules are
// added during process initialization only; after Freeze the set is
// read-only and shared across concurrent units without locking.
type Set struct {
	mu     sync.RWMutex
	rules  []Rule
	ids    map[string]bool
	frozen atomic.Bool
}

// NewSet creates an empty rule set
func NewSet() *Set {
	return &Set{
		ids: make(map[string]bool),
	}
}

// Add appends a rule. Evaluation order equals registration order.
// Fails once the set is frozen or when the rule id is already taken.
func (s *Set) Add(rule Rule) error {
	if s.frozen.Load() {
		return types.ErrRegistryFrozen
	}
	if rule.ID == "" {
		return fmt.Errorf("rule ID cannot be empty")
	}
	if rule.Check == nil {
		return fmt.Errorf("rule %s has no check function", rule.ID)
	}
	if rule.Severity != types.SeverityBlocking && rule.Severity != types.SeverityAdvisory {
		return fmt.Errorf("rule %s has invalid severity %q", rule.ID, rule.Severity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids[rule.ID] {
		return fmt.Errorf("rule %s already registered", rule.ID)
	}
	s.ids[rule.ID] = true
	s.rules = append(s.rules, rule)
	return nil
}

// Freeze marks the end of initialization. Further Add calls fail.
func (s *Set) Freeze() {
	s.frozen.Store(true)
}

// Rules returns the rules in registration order
func (s *Set) Rules() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Len returns the number of registered rules
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules)
}

// Stats returns rule set statistics
func (s *Set) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var blocking, advisory int
	for _, r := range s.rules {
		if r.Severity == types.SeverityBlocking {
			blocking++
		} else {
			advisory++
		}
	}
	return map[string]interface{}{
		"total_rules": len(s.rules),
		"blocking":    blocking,
		"advisory":    advisory,
		"frozen":      s.frozen.Load(),
	}
}
