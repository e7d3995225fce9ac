// Package orchestrator drives the generation pipeline: resolve once,
// expand and validate per platform with bounded concurrency, and emit an
// ordered progress stream per job.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/uniforge/uniforge/internal/domain/expand"
	"github.com/uniforge/uniforge/internal/domain/job"
	"github.com/uniforge/uniforge/internal/domain/resolve"
	"github.com/uniforge/uniforge/internal/domain/validate"
	"github.com/uniforge/uniforge/internal/infrastructure/logging"
	"github.com/uniforge/uniforge/internal/infrastructure/monitoring"
	"github.com/uniforge/uniforge/internal/shared/types"
	"github.com/uniforge/uniforge/internal/shared/utils"
)

// Orchestrator owns the per-job state machine. Resolution happens
// synchronously on submit so callers get spec errors immediately;
// per-platform work runs in the background.
type Orchestrator struct {
	resolver  *resolve.Resolver
	expander  *expand.Expander
	validator *validate.Validator
	store     *job.Store
	events    *Bus
	logger    *logging.Logger
	metrics   *monitoring.Metrics
	maxUnits  int
}

// New creates an orchestrator. maxUnits bounds concurrent platform units
// per job.
func New(
	resolver *resolve.Resolver,
	expander *expand.Expander,
	validator *validate.Validator,
	store *job.Store,
	events *Bus,
	logger *logging.Logger,
	maxUnits int,
) *Orchestrator {
	if logger == nil {
		logger = logging.NewDefault()
	}
	if maxUnits <= 0 {
		maxUnits = 8
	}
	return &Orchestrator{
		resolver:  resolver,
		expander:  expander,
		validator: validator,
		store:     store,
		events:    events,
		logger:    logger,
		maxUnits:  maxUnits,
	}
}

// WithMetrics attaches a metrics collector
func (o *Orchestrator) WithMetrics(m *monitoring.Metrics) *Orchestrator {
	o.metrics = m
	return o
}

// Events exposes the progress event bus
func (o *Orchestrator) Events() *Bus {
	return o.events
}

// Store exposes the job store
func (o *Orchestrator) Store() *job.Store {
	return o.store
}

// Submit resolves a request and starts its generation job. A resolution
// failure returns the error together with the failed job record; an
// identical in-flight request coalesces to the live job instead of
// starting a second run.
func (o *Orchestrator) Submit(ctx context.Context, req *types.SubmitRequest) (*types.GenerationJob, bool, error) {
	if err := utils.ValidateSubmitRequest(req); err != nil {
		return nil, false, err
	}
	platforms := utils.DedupePlatforms(req.Platforms)

	spec, err := o.resolver.Resolve(ctx, req)
	if err != nil {
		failed := o.store.CreateFailed(platforms, err)
		o.publish(newEvent(failed.ID, types.PhaseJobDone, nil, failed))
		o.recordJobDone(failed)
		o.logger.Warn("Resolution failed",
			zap.String("job_id", failed.ID),
			zap.Error(err),
		)
		return failed, false, err
	}

	j, coalesced, err := o.store.Create(spec, platforms)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create job: %w", err)
	}
	if coalesced {
		if o.metrics != nil {
			o.metrics.IncJobsCoalesced()
		}
		o.logger.Info("Coalesced duplicate request",
			zap.String("job_id", j.ID),
			zap.String("hash", utils.ShortHash(j.RequestHash)),
		)
		return j, true, nil
	}

	// The run outlives the HTTP request, so it gets its own context;
	// cancellation comes only through the store's cancel binding.
	runCtx, cancel := context.WithCancel(context.Background())
	o.store.BindCancel(j.ID, cancel)

	o.logger.Info("Job submitted",
		zap.String("job_id", j.ID),
		zap.String("kind", string(spec.Kind)),
		zap.Int("platforms", len(platforms)),
	)

	go o.run(runCtx, cancel, j.ID, spec, platforms)
	return j, false, nil
}

// run executes one job to a terminal status
func (o *Orchestrator) run(ctx context.Context, cancel context.CancelFunc, jobID string, spec *types.ComponentSpec, platforms []types.Platform) {
	defer cancel()

	o.store.SetStatus(jobID, types.JobRunning)
	o.syncActiveGauge()
	o.publish(newEvent(jobID, types.PhaseResolved, nil, nil))

	g := new(errgroup.Group)
	g.SetLimit(o.maxUnits)
	for i, platform := range platforms {
		slot, platform := i, platform
		g.Go(func() error {
			o.runUnit(ctx, jobID, spec, platform, slot)
			return nil
		})
	}
	_ = g.Wait() // units report outcomes as variant state, never as errors

	status := types.JobCompleted
	if ctx.Err() != nil {
		status = types.JobCancelled
	}
	o.store.SetStatus(jobID, status)
	o.syncActiveGauge()

	final, err := o.store.Get(jobID)
	if err != nil {
		o.logger.Error("Job vanished before completion", zap.String("job_id", jobID))
		return
	}
	o.recordJobDone(final)
	o.publish(newEvent(jobID, types.PhaseJobDone, nil, final))

	o.logger.Info("Job finished",
		zap.String("job_id", jobID),
		zap.String("status", string(status)),
	)
}

// runUnit runs the expand/validate pipeline for one platform. Cancellation
// is checked at phase boundaries only; a unit past its last check runs to
// completion and its result is kept.
func (o *Orchestrator) runUnit(ctx context.Context, jobID string, spec *types.ComponentSpec, platform types.Platform, slot int) {
	if ctx.Err() != nil {
		o.store.SetVariant(jobID, slot, cancelledVariant(platform))
		return
	}

	var timer *monitoring.Timer
	if o.metrics != nil {
		timer = monitoring.NewTimer(o.metrics, string(platform))
	}

	o.publish(newEvent(jobID, types.PhaseVariantStarted, &platform, nil))

	variant := o.expander.Expand(spec, platform)

	if ctx.Err() != nil {
		variant.Status = types.VariantRejected
		variant.Violations = append(variant.Violations, cancelledViolation())
		o.store.SetVariant(jobID, slot, variant)
		o.finishUnit(jobID, platform, variant, timer, false)
		return
	}

	variant = o.validator.Validate(spec, variant)
	o.store.SetVariant(jobID, slot, variant)
	o.finishUnit(jobID, platform, variant, timer, true)
}

// finishUnit emits the trailing events and metrics for a platform unit
func (o *Orchestrator) finishUnit(jobID string, platform types.Platform, variant *types.PlatformVariant, timer *monitoring.Timer, validated bool) {
	if validated {
		o.publish(newEvent(jobID, types.PhaseVariantValidated, &platform, nil))
	}
	if o.metrics != nil {
		for _, v := range variant.Violations {
			o.metrics.RecordViolation(v.Rule, string(v.Severity))
		}
	}
	if timer != nil {
		timer.Stop(string(variant.Status))
	}
	o.publish(newEvent(jobID, types.PhaseVariantDone, &platform, nil))
}

// Cancel requests cooperative cancellation of a job
func (o *Orchestrator) Cancel(jobID string) error {
	if err := o.store.Cancel(jobID); err != nil {
		return err
	}
	o.logger.Info("Cancellation requested", zap.String("job_id", jobID))
	return nil
}

// SweepLoop periodically evicts expired terminal jobs and their event
// logs until the context is cancelled.
func (o *Orchestrator) SweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed := o.store.Sweep(now)
			for _, jobID := range removed {
				o.events.Drop(jobID)
			}
			if len(removed) > 0 {
				o.logger.Debug("Swept expired jobs", zap.Int("count", len(removed)))
			}
		}
	}
}

func (o *Orchestrator) publish(event *types.ProgressEvent) {
	o.events.Publish(event)
	if o.metrics != nil {
		o.metrics.RecordEvent(string(event.Phase))
	}
}

func (o *Orchestrator) syncActiveGauge() {
	if o.metrics != nil {
		o.metrics.SetJobsActive(o.store.LiveCount())
	}
}

func (o *Orchestrator) recordJobDone(j *types.GenerationJob) {
	if o.metrics == nil {
		return
	}
	duration := time.Duration(0)
	if j.CompletedAt != nil {
		duration = j.CompletedAt.Sub(j.CreatedAt)
	}
	o.metrics.RecordJobDone(string(j.Status), duration)
}

// cancelledVariant is the terminal record for a unit that never started
func cancelledVariant(platform types.Platform) *types.PlatformVariant {
	return &types.PlatformVariant{
		Platform:     platform,
		AppliedProps: map[string]interface{}{},
		Violations:   []types.Violation{cancelledViolation()},
		Status:       types.VariantRejected,
	}
}

func cancelledViolation() types.Violation {
	return types.Violation{
		Code:     types.CodeCancelled,
		Severity: types.SeverityBlocking,
		Origin:   types.OriginLifecycle,
		Message:  "job cancelled before this platform unit completed",
	}
}
