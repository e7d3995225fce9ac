// Package job tracks in-flight and completed generation jobs for
// idempotent re-query and cancellation. Jobs are in-memory; completed jobs
// are swept after a retention window.
package job

import (
	"context"
	"sync"
	"time"

	"github.com/uniforge/uniforge/internal/shared/id"
	"github.com/uniforge/uniforge/internal/shared/types"
	"github.com/uniforge/uniforge/internal/shared/utils"
)

// entry couples a job with its run-control state. All mutation goes
// through Store methods under the store lock; each platform unit writes
// only its own variant slot.
type entry struct {
	job    *types.GenerationJob
	cancel context.CancelFunc

	// cancelRequested records a Cancel that arrived before the run's
	// cancel func was bound; BindCancel honors it immediately.
	cancelRequested bool
}

// Store holds generation jobs and enforces at-most-one live run per
// identical (spec, platforms) tuple: a duplicate in-flight submission
// coalesces to the existing job.
type Store struct {
	mu        sync.RWMutex
	jobs      map[string]*entry
	live      map[string]string // request hash -> live job id
	ident     *utils.RequestIdentifier
	retention time.Duration
}

// NewStore creates a job store with the given retention window for
// terminal jobs.
func NewStore(retention time.Duration) *Store {
	return &Store{
		jobs:      make(map[string]*entry),
		live:      make(map[string]string),
		ident:     utils.NewRequestIdentifier(nil),
		retention: retention,
	}
}

// Create registers a new pending job, or returns the live job for an
// identical request. The variant slice is pre-sized so each platform unit
// later writes only its own slot.
func (s *Store) Create(spec *types.ComponentSpec, platforms []types.Platform) (*types.GenerationJob, bool, error) {
	hash, err := s.ident.GenerateHash(spec, platforms)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existingID, ok := s.live[hash]; ok {
		if e, ok := s.jobs[existingID]; ok && !e.job.Status.Terminal() {
			return snapshotLocked(e.job), true, nil
		}
	}

	j := &types.GenerationJob{
		ID:          id.NewJobID().String(),
		RequestHash: hash,
		Spec:        spec,
		Platforms:   append([]types.Platform{}, platforms...),
		Variants:    make([]*types.PlatformVariant, len(platforms)),
		Status:      types.JobPending,
		CreatedAt:   time.Now(),
	}
	s.jobs[j.ID] = &entry{job: j}
	s.live[hash] = j.ID
	return snapshotLocked(j), false, nil
}

// CreateFailed records a job that failed before any per-platform work,
// i.e. a resolution failure. It never coalesces.
func (s *Store) CreateFailed(platforms []types.Platform, cause error) *types.GenerationJob {
	now := time.Now()
	msg := cause.Error()
	j := &types.GenerationJob{
		ID:          id.NewJobID().String(),
		Platforms:   append([]types.Platform{}, platforms...),
		Variants:    []*types.PlatformVariant{},
		Status:      types.JobFailed,
		Error:       &msg,
		CreatedAt:   now,
		CompletedAt: &now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = &entry{job: j}
	return snapshotLocked(j)
}

// BindCancel attaches the orchestrator's cancel function to a job. A
// cancellation that raced ahead of the binding fires right away.
func (s *Store) BindCancel(jobID string, cancel context.CancelFunc) {
	s.mu.Lock()
	e, ok := s.jobs[jobID]
	var pending bool
	if ok {
		e.cancel = cancel
		pending = e.cancelRequested
	}
	s.mu.Unlock()

	if pending {
		cancel()
	}
}

// Get returns a snapshot of a job
func (s *Store) Get(jobID string) (*types.GenerationJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.jobs[jobID]
	if !ok {
		return nil, types.ErrJobNotFound
	}
	return snapshotLocked(e.job), nil
}

// List returns snapshots of all jobs in unspecified order
func (s *Store) List() []*types.GenerationJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.GenerationJob, 0, len(s.jobs))
	for _, e := range s.jobs {
		out = append(out, snapshotLocked(e.job))
	}
	return out
}

// Cancel requests cooperative cancellation of a live job. Cancelling a
// job that already reached a terminal status is a no-op; a cancel that
// lands before the run's cancel func is bound stays pending and fires
// at binding time.
func (s *Store) Cancel(jobID string) error {
	s.mu.Lock()
	e, ok := s.jobs[jobID]
	if !ok {
		s.mu.Unlock()
		return types.ErrJobNotFound
	}
	if e.job.Status.Terminal() {
		s.mu.Unlock()
		return nil
	}
	cancel := e.cancel
	if cancel == nil {
		e.cancelRequested = true
	}
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return nil
}

// SetStatus transitions a job's lifecycle status. Terminal transitions
// stamp CompletedAt and release the live-request slot so a later
// identical submission starts a fresh job.
func (s *Store) SetStatus(jobID string, status types.JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[jobID]
	if !ok {
		return
	}
	e.job.Status = status
	if status.Terminal() {
		now := time.Now()
		e.job.CompletedAt = &now
		if s.live[e.job.RequestHash] == jobID {
			delete(s.live, e.job.RequestHash)
		}
	}
}

// SetVariant writes one platform's result into its slot. Each platform
// unit owns exactly one slot, so slots never conflict.
func (s *Store) SetVariant(jobID string, slot int, variant *types.PlatformVariant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[jobID]
	if !ok || slot < 0 || slot >= len(e.job.Variants) {
		return
	}
	e.job.Variants[slot] = variant
}

// LiveCount returns the number of jobs not yet terminal
func (s *Store) LiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	for _, e := range s.jobs {
		if !e.job.Status.Terminal() {
			n++
		}
	}
	return n
}

// Sweep removes terminal jobs older than the retention window and
// returns the IDs of the removed jobs so callers can release any
// per-job state of their own.
func (s *Store) Sweep(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []string
	for jobID, e := range s.jobs {
		if !e.job.Status.Terminal() || e.job.CompletedAt == nil {
			continue
		}
		if now.Sub(*e.job.CompletedAt) > s.retention {
			delete(s.jobs, jobID)
			removed = append(removed, jobID)
		}
	}
	return removed
}

// Stats returns store statistics
func (s *Store) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byStatus := make(map[string]int)
	for _, e := range s.jobs {
		byStatus[string(e.job.Status)]++
	}
	return map[string]interface{}{
		"total_jobs": len(s.jobs),
		"by_status":  byStatus,
	}
}

// snapshotLocked deep-copies a job so callers never observe concurrent
// slot writes. Caller must hold at least the read lock.
func snapshotLocked(j *types.GenerationJob) *types.GenerationJob {
	out := *j
	out.Platforms = append([]types.Platform{}, j.Platforms...)
	out.Variants = make([]*types.PlatformVariant, len(j.Variants))
	for i, v := range j.Variants {
		if v == nil {
			continue
		}
		vc := *v
		vc.Violations = append([]types.Violation{}, v.Violations...)
		props := make(map[string]interface{}, len(v.AppliedProps))
		for k, val := range v.AppliedProps {
			props[k] = val
		}
		vc.AppliedProps = props
		out.Variants[i] = &vc
	}
	return &out
}
