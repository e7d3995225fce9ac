package orchestrator

import (
	"sync"
	"time"

	"github.com/uniforge/uniforge/internal/shared/id"
	"github.com/uniforge/uniforge/internal/shared/types"
)

// Bus fans progress events out to subscribers and keeps a per-job log so
// late subscribers can replay the full stream. Each platform unit emits
// its own events in order and the bus lock serializes appends, so
// per-platform ordering holds in both the log and every live stream.
type Bus struct {
	mu      sync.RWMutex
	logs    map[string][]*types.ProgressEvent
	subs    map[string][]chan *types.ProgressEvent
	bufSize int
}

// NewBus creates an event bus with the given per-subscriber buffer size
func NewBus(bufSize int) *Bus {
	if bufSize <= 0 {
		bufSize = 64
	}
	return &Bus{
		logs:    make(map[string][]*types.ProgressEvent),
		subs:    make(map[string][]chan *types.ProgressEvent),
		bufSize: bufSize,
	}
}

// Publish appends an event to the job's log and forwards it to every
// subscriber. A subscriber that cannot keep up loses events rather than
// stalling the pipeline; the log stays complete for replay.
func (b *Bus) Publish(event *types.ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.logs[event.JobID] = append(b.logs[event.JobID], event)
	for _, ch := range b.subs[event.JobID] {
		select {
		case ch <- event:
		default:
		}
	}

	if event.Phase == types.PhaseJobDone {
		for _, ch := range b.subs[event.JobID] {
			close(ch)
		}
		delete(b.subs, event.JobID)
	}
}

// Subscribe returns the job's event log so far plus a live channel for
// subsequent events. The channel is nil when the stream already ended;
// the replay then contains the complete history.
func (b *Bus) Subscribe(jobID string) ([]*types.ProgressEvent, <-chan *types.ProgressEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	replay := append([]*types.ProgressEvent{}, b.logs[jobID]...)
	if n := len(replay); n > 0 && replay[n-1].Phase == types.PhaseJobDone {
		return replay, nil, func() {}
	}

	ch := make(chan *types.ProgressEvent, b.bufSize)
	b.subs[jobID] = append(b.subs[jobID], ch)

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		chans := b.subs[jobID]
		for i, c := range chans {
			if c == ch {
				b.subs[jobID] = append(chans[:i], chans[i+1:]...)
				close(c)
				return
			}
		}
	}
	return replay, ch, unsubscribe
}

// Replay returns a copy of the job's event log
func (b *Bus) Replay(jobID string) []*types.ProgressEvent {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*types.ProgressEvent{}, b.logs[jobID]...)
}

// Drop discards the event log for a job, typically after the job has
// been swept from the store.
func (b *Bus) Drop(jobID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.logs, jobID)
}

// Stats returns event bus statistics
func (b *Bus) Stats() map[string]interface{} {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var events int
	for _, log := range b.logs {
		events += len(log)
	}
	return map[string]interface{}{
		"tracked_jobs":  len(b.logs),
		"logged_events": events,
	}
}

// newEvent builds a progress event with a fresh monotonic ID
func newEvent(jobID string, phase types.Phase, platform *types.Platform, jobSnapshot *types.GenerationJob) *types.ProgressEvent {
	return &types.ProgressEvent{
		ID:        id.NewEventID().String(),
		JobID:     jobID,
		Phase:     phase,
		Platform:  platform,
		Job:       jobSnapshot,
		Timestamp: time.Now(),
	}
}
