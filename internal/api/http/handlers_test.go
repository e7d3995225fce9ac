package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uniforge/uniforge/internal/domain/expand"
	"github.com/uniforge/uniforge/internal/domain/job"
	"github.com/uniforge/uniforge/internal/domain/resolve"
	"github.com/uniforge/uniforge/internal/domain/rules"
	"github.com/uniforge/uniforge/internal/domain/template"
	"github.com/uniforge/uniforge/internal/domain/validate"
	"github.com/uniforge/uniforge/internal/infrastructure/logging"
	"github.com/uniforge/uniforge/internal/infrastructure/monitoring"
	"github.com/uniforge/uniforge/internal/orchestrator"
)

// Prometheus collectors register globally, so the suite shares one set
var sharedMetrics = monitoring.NewMetrics()

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := template.NewRegistry()
	require.NoError(t, template.NewSeeder(registry, t.TempDir()).SeedDefaults())
	registry.Freeze()

	ruleSet := rules.NewSet()
	require.NoError(t, rules.RegisterDefaults(ruleSet))
	ruleSet.Freeze()

	logger := &logging.Logger{Logger: zap.NewNop()}
	orch := orchestrator.New(
		resolve.New(nil, logger),
		expand.New(registry),
		validate.New(ruleSet),
		job.NewStore(time.Hour),
		orchestrator.NewBus(64),
		logger,
		4,
	)

	h := NewHandler(orch, registry, ruleSet, sharedMetrics, logger)

	router := gin.New()
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.POST("/generate", h.Submit)
	router.GET("/jobs", h.ListJobs)
	router.GET("/jobs/:id", h.GetJob)
	router.POST("/jobs/:id/cancel", h.CancelJob)
	router.GET("/templates", h.ListTemplates)
	router.GET("/rules", h.ListRules)
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

// awaitTerminal polls the job endpoint until the job leaves the running
// states.
func awaitTerminal(t *testing.T, router *gin.Engine, jobID string) map[string]interface{} {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		w, body := doJSON(router, http.MethodGet, "/jobs/"+jobID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		j := body["job"].(map[string]interface{})
		status := j["status"].(string)
		if status != "pending" && status != "running" {
			return j
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached a terminal status", jobID)
	return nil
}

func TestSubmitAndFetchJob(t *testing.T) {
	router := testRouter(t)

	w, body := doJSON(router, http.MethodPost, "/generate", map[string]interface{}{
		"kind":      "button",
		"props":     map[string]interface{}{"label": "Save"},
		"platforms": []string{"react", "vue"},
	})
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, false, body["coalesced"])

	j := body["job"].(map[string]interface{})
	jobID := j["id"].(string)
	require.NotEmpty(t, jobID)

	final := awaitTerminal(t, router, jobID)
	assert.Equal(t, "completed", final["status"])
	variants := final["variants"].([]interface{})
	assert.Len(t, variants, 2)
}

func TestSubmitResolutionError(t *testing.T) {
	router := testRouter(t)

	w, body := doJSON(router, http.MethodPost, "/generate", map[string]interface{}{
		"kind":      "gizmo",
		"platforms": []string{"react"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UnknownKind", body["code"])

	// The failed job is left behind for inspection
	jobID, ok := body["job_id"].(string)
	require.True(t, ok, "expected job_id in error body")

	w, fetched := doJSON(router, http.MethodGet, "/jobs/"+jobID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "failed", fetched["job"].(map[string]interface{})["status"])
}

func TestSubmitStructuralError(t *testing.T) {
	router := testRouter(t)

	w, _ := doJSON(router, http.MethodPost, "/generate", map[string]interface{}{
		"kind": "button",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetJobNotFound(t *testing.T) {
	router := testRouter(t)
	w, _ := doJSON(router, http.MethodGet, "/jobs/job_doesnotexist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetJobBadID(t *testing.T) {
	router := testRouter(t)
	w, _ := doJSON(router, http.MethodGet, "/jobs/bad!id", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelUnknownJob(t *testing.T) {
	router := testRouter(t)
	w, _ := doJSON(router, http.MethodPost, "/jobs/job_doesnotexist/cancel", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelAccepted(t *testing.T) {
	router := testRouter(t)

	w, body := doJSON(router, http.MethodPost, "/generate", map[string]interface{}{
		"kind":      "button",
		"props":     map[string]interface{}{"label": "Save"},
		"platforms": []string{"react"},
	})
	require.Equal(t, http.StatusAccepted, w.Code)
	jobID := body["job"].(map[string]interface{})["id"].(string)

	w, _ = doJSON(router, http.MethodPost, "/jobs/"+jobID+"/cancel", nil)
	assert.Equal(t, http.StatusAccepted, w.Code)

	final := awaitTerminal(t, router, jobID)
	status := final["status"].(string)
	assert.Contains(t, []string{"completed", "cancelled"}, status)
}

func TestListTemplates(t *testing.T) {
	router := testRouter(t)

	w, body := doJSON(router, http.MethodGet, "/templates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(70), body["count"])
	assert.Len(t, body["platforms"], 7)

	templates := body["templates"].([]interface{})
	first := templates[0].(map[string]interface{})
	assert.NotContains(t, first, "body", "template bodies stay internal")
}

func TestListRules(t *testing.T) {
	router := testRouter(t)

	w, body := doJSON(router, http.MethodGet, "/rules", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(5), body["count"])

	rulesList := body["rules"].([]interface{})
	first := rulesList[0].(map[string]interface{})
	assert.Equal(t, "accessible-label", first["id"], "rules listed in evaluation order")
}

func TestHealth(t *testing.T) {
	router := testRouter(t)
	w, body := doJSON(router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, body, "jobs")
	assert.Contains(t, body, "templates")
	assert.Contains(t, body, "rules")
}

func TestListJobs(t *testing.T) {
	router := testRouter(t)

	for _, kind := range []string{"button", "badge"} {
		w, _ := doJSON(router, http.MethodPost, "/generate", map[string]interface{}{
			"kind":      kind,
			"props":     map[string]interface{}{},
			"platforms": []string{"react"},
		})
		require.Equal(t, http.StatusAccepted, w.Code)
	}

	w, body := doJSON(router, http.MethodGet, "/jobs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["count"])
}
