package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := strconv.Itoa(c.Writer.Status())

		metrics.RecordHTTPRequest(method, path, status, duration)
	}
}

// Timer measures the duration of one platform unit of work
type Timer struct {
	start    time.Time
	metrics  *Metrics
	platform string
}

// NewTimer creates a new timer for a platform unit
func NewTimer(metrics *Metrics, platform string) *Timer {
	return &Timer{
		start:    time.Now(),
		metrics:  metrics,
		platform: platform,
	}
}

// Stop stops the timer and records the variant outcome
func (t *Timer) Stop(status string) {
	t.metrics.RecordVariant(t.platform, status, time.Since(t.start))
}
