// Package ws streams progress events over WebSocket. A client subscribes
// to a job and receives its full event history followed by live events
// until job-done; submissions are accepted over the same connection.
package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/uniforge/uniforge/internal/infrastructure/logging"
	"github.com/uniforge/uniforge/internal/infrastructure/monitoring"
	"github.com/uniforge/uniforge/internal/orchestrator"
	"github.com/uniforge/uniforge/internal/shared/types"
	"github.com/uniforge/uniforge/internal/shared/utils"
)

const (
	writeWait  = 10 * time.Second
	maxMsgSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy is enforced by the CORS layer
	},
}

// Handler manages WebSocket streaming connections
type Handler struct {
	orch    *orchestrator.Orchestrator
	metrics *monitoring.Metrics
	logger  *logging.Logger
}

// NewHandler creates a WebSocket handler
func NewHandler(orch *orchestrator.Orchestrator, metrics *monitoring.Metrics, logger *logging.Logger) *Handler {
	return &Handler{
		orch:    orch,
		metrics: metrics,
		logger:  logger,
	}
}

// conn wraps a WebSocket connection with a write lock so subscription
// goroutines and the read loop never interleave frames.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

// outbound message types
type eventMsg struct {
	Type  string               `json:"type"`
	Event *types.ProgressEvent `json:"event"`
}

type ackMsg struct {
	Type      string               `json:"type"`
	JobID     string               `json:"job_id,omitempty"`
	Job       *types.GenerationJob `json:"job,omitempty"`
	Coalesced bool                 `json:"coalesced,omitempty"`
}

type errorMsg struct {
	Type  string `json:"type"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	JobID string `json:"job_id,omitempty"`
}

// Stream handles GET /stream
func (h *Handler) Stream(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}

	clientID := uuid.NewString()
	h.logger.Info("WebSocket client connected", zap.String("client_id", clientID))

	h.metrics.IncWSConnections()
	defer h.metrics.DecWSConnections()
	defer h.logger.Info("WebSocket client disconnected", zap.String("client_id", clientID))

	client := &conn{ws: ws}
	ws.SetReadLimit(maxMsgSize)

	// Tracks active subscriptions so they are torn down with the socket
	var (
		subMu  sync.Mutex
		unsubs = make(map[string]func())
	)
	defer func() {
		subMu.Lock()
		for _, unsub := range unsubs {
			unsub()
		}
		subMu.Unlock()
		ws.Close()
	}()

	client.send(ackMsg{Type: "connected"})

	for {
		var msg types.WSMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("WebSocket closed unexpectedly", zap.Error(err))
			}
			return
		}
		h.metrics.RecordWSMessage("in", msg.Type)

		switch msg.Type {
		case "subscribe":
			h.handleSubscribe(client, msg.JobID, &subMu, unsubs)
		case "submit":
			h.handleSubmit(c, client, msg.Request, &subMu, unsubs)
		case "ping":
			client.send(ackMsg{Type: "pong"})
			h.metrics.RecordWSMessage("out", "pong")
		default:
			client.send(errorMsg{Type: "error", Error: "unknown message type: " + msg.Type})
		}
	}
}

// handleSubscribe replays a job's event history and forwards live events
// until the stream ends or the client disconnects.
func (h *Handler) handleSubscribe(client *conn, jobID string, subMu *sync.Mutex, unsubs map[string]func()) {
	if err := utils.ValidateID(jobID, "job_id"); err != nil {
		client.send(errorMsg{Type: "error", Error: err.Error()})
		return
	}
	if _, err := h.orch.Store().Get(jobID); err != nil {
		client.send(errorMsg{Type: "error", Error: "job not found", JobID: jobID})
		return
	}

	replay, live, unsub := h.orch.Events().Subscribe(jobID)
	for _, event := range replay {
		if client.send(eventMsg{Type: "event", Event: event}) != nil {
			unsub()
			return
		}
		h.metrics.RecordWSMessage("out", "event")
	}
	if live == nil {
		// Stream already ended; the replay included job-done
		return
	}

	subMu.Lock()
	if prev, exists := unsubs[jobID]; exists {
		prev()
	}
	unsubs[jobID] = unsub
	subMu.Unlock()

	go func() {
		for event := range live {
			if client.send(eventMsg{Type: "event", Event: event}) != nil {
				unsub()
				return
			}
			h.metrics.RecordWSMessage("out", "event")
		}
	}()
}

// handleSubmit accepts a generation request over the socket and
// auto-subscribes the client to the new job's stream.
func (h *Handler) handleSubmit(c *gin.Context, client *conn, req *types.SubmitRequest, subMu *sync.Mutex, unsubs map[string]func()) {
	if req == nil {
		client.send(errorMsg{Type: "error", Error: "submit requires a request payload"})
		return
	}

	j, coalesced, err := h.orch.Submit(c.Request.Context(), req)
	if err != nil {
		msg := errorMsg{Type: "error", Error: err.Error()}
		if resErr, ok := types.AsResolutionError(err); ok {
			msg.Error = resErr.Message
			msg.Code = string(resErr.Code)
			if j != nil {
				msg.JobID = j.ID
			}
		}
		client.send(msg)
		return
	}

	client.send(ackMsg{Type: "accepted", JobID: j.ID, Job: j, Coalesced: coalesced})
	h.metrics.RecordWSMessage("out", "accepted")

	h.handleSubscribe(client, j.ID, subMu, unsubs)
}
