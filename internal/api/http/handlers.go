// Package http implements the engine's REST surface: job submission,
// job inspection and cancellation, and read-only views of the template
// registry and rule set.
package http

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uniforge/uniforge/internal/domain/rules"
	"github.com/uniforge/uniforge/internal/domain/template"
	"github.com/uniforge/uniforge/internal/infrastructure/logging"
	"github.com/uniforge/uniforge/internal/infrastructure/monitoring"
	"github.com/uniforge/uniforge/internal/orchestrator"
	"github.com/uniforge/uniforge/internal/shared/types"
	"github.com/uniforge/uniforge/internal/shared/utils"
)

// Handler serves the REST API
type Handler struct {
	orch      *orchestrator.Orchestrator
	templates *template.Registry
	rules     *rules.Set
	metrics   *monitoring.Metrics
	logger    *logging.Logger
	startTime time.Time
}

// NewHandler creates an HTTP handler
func NewHandler(
	orch *orchestrator.Orchestrator,
	templates *template.Registry,
	ruleSet *rules.Set,
	metrics *monitoring.Metrics,
	logger *logging.Logger,
) *Handler {
	return &Handler{
		orch:      orch,
		templates: templates,
		rules:     ruleSet,
		metrics:   metrics,
		logger:    logger,
		startTime: time.Now(),
	}
}

// Root handles GET / with service information
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "uniforge-engine",
		"version": "1.0.0",
		"endpoints": gin.H{
			"generate":  "POST /generate",
			"jobs":      "GET /jobs, GET /jobs/:id, POST /jobs/:id/cancel",
			"templates": "GET /templates",
			"rules":     "GET /rules",
			"stream":    "WS /stream",
			"health":    "GET /health",
			"metrics":   "GET /metrics",
		},
	})
}

// Health handles GET /health with aggregate engine statistics
func (h *Handler) Health(c *gin.Context) {
	snapshot := h.metrics.GetSnapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"uptime_seconds": int(time.Since(h.startTime).Seconds()),
		"jobs":           h.orch.Store().Stats(),
		"templates":      h.templates.Stats(),
		"rules":          h.rules.Stats(),
		"events":         h.orch.Events().Stats(),
		"requests": gin.H{
			"total":  snapshot.TotalRequests,
			"errors": snapshot.TotalErrors,
		},
	})
}

// Submit handles POST /generate. Accepted submissions return 202 with the
// pending job; a duplicate of a live request returns that job instead of
// starting a second run.
func (h *Handler) Submit(c *gin.Context) {
	var req types.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	j, coalesced, err := h.orch.Submit(c.Request.Context(), &req)
	if err != nil {
		if resErr, ok := types.AsResolutionError(err); ok {
			// Resolution failures leave a queryable failed job behind
			body := gin.H{
				"error": resErr.Message,
				"code":  string(resErr.Code),
			}
			if resErr.Field != "" {
				body["field"] = resErr.Field
			}
			if j != nil {
				body["job_id"] = j.ID
			}
			c.JSON(http.StatusBadRequest, body)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id":    j.ID,
		"job":       j,
		"coalesced": coalesced,
	})
}

// GetJob handles GET /jobs/:id
func (h *Handler) GetJob(c *gin.Context) {
	jobID := c.Param("id")
	if err := utils.ValidateID(jobID, "job id"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	j, err := h.orch.Store().Get(jobID)
	if err != nil {
		if errors.Is(err, types.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": j})
}

// ListJobs handles GET /jobs, newest first
func (h *Handler) ListJobs(c *gin.Context) {
	jobs := h.orch.Store().List()
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].ID > jobs[j].ID // ULID ids sort by creation time
	})
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// CancelJob handles POST /jobs/:id/cancel. Cancellation is cooperative;
// the job reaches a terminal status asynchronously.
func (h *Handler) CancelJob(c *gin.Context) {
	jobID := c.Param("id")
	if err := utils.ValidateID(jobID, "job id"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.orch.Cancel(jobID); err != nil {
		if errors.Is(err, types.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("Cancellation accepted", zap.String("job_id", jobID))
	c.JSON(http.StatusAccepted, gin.H{
		"job_id": jobID,
		"status": "cancelling",
	})
}

// templateView is the read-only wire form of a template definition. The
// body itself stays internal.
type templateView struct {
	ID             string   `json:"id"`
	Kind           string   `json:"kind"`
	Platform       string   `json:"platform"`
	Version        string   `json:"version"`
	SupportedProps []string `json:"supported_props"`
	SatisfiedTags  []string `json:"satisfied_tags,omitempty"`
}

// ListTemplates handles GET /templates
func (h *Handler) ListTemplates(c *gin.Context) {
	defs := h.templates.List()
	views := make([]templateView, 0, len(defs))
	for _, def := range defs {
		views = append(views, templateView{
			ID:             def.ID,
			Kind:           string(def.Kind),
			Platform:       string(def.Platform),
			Version:        def.Version,
			SupportedProps: def.SupportedProps,
			SatisfiedTags:  def.SatisfiedTags,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"templates": views,
		"count":     len(views),
		"platforms": h.templates.Platforms(),
	})
}

// ruleView is the read-only wire form of a constraint rule
type ruleView struct {
	ID          string `json:"id"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Tag         string `json:"satisfied_by_tag,omitempty"`
	AppliesTo   string `json:"applies_to_tag,omitempty"`
}

// ListRules handles GET /rules in evaluation order
func (h *Handler) ListRules(c *gin.Context) {
	all := h.rules.Rules()
	views := make([]ruleView, 0, len(all))
	for _, r := range all {
		views = append(views, ruleView{
			ID:          r.ID,
			Severity:    string(r.Severity),
			Description: r.Description,
			Tag:         r.Tag,
			AppliesTo:   r.AppliesTo,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"rules": views,
		"count": len(views),
	})
}
