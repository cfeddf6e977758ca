package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nizy/tailor/internal/application/notify"
	"github.com/nizy/tailor/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// SSE event names
const (
	EventSnapshot  = "snapshot"
	EventHeartbeat = "heartbeat"
)

// SSEMessage is one server-sent event
type SSEMessage struct {
	Event string
	Data  string
	ID    string
}

// SnapshotWatcher subscribes to live collection snapshots
type SnapshotWatcher interface {
	Watch(ctx context.Context, collection string) (<-chan notify.Snapshot, func(), error)
}

// EventsHandler streams collection snapshots to list screens over SSE
type EventsHandler struct {
	BaseHandler
	watcher    SnapshotWatcher
	logger     *zap.Logger
	heartbeat  time.Duration
	maxClients int64
	clients    atomic.Int64
	ctx        context.Context
	cancel     context.CancelFunc
}

// EventsOption configures an EventsHandler
type EventsOption func(*EventsHandler)

// WithEventsLogger sets the logger for the handler
func WithEventsLogger(logger *zap.Logger) EventsOption {
	return func(h *EventsHandler) {
		h.logger = logger
	}
}

// WithHeartbeat sets the heartbeat interval
func WithHeartbeat(interval time.Duration) EventsOption {
	return func(h *EventsHandler) {
		h.heartbeat = interval
	}
}

// WithMaxClients caps concurrent streams; 0 means unlimited
func WithMaxClients(max int) EventsOption {
	return func(h *EventsHandler) {
		h.maxClients = int64(max)
	}
}

// NewEventsHandler creates a new EventsHandler
func NewEventsHandler(watcher SnapshotWatcher, opts ...EventsOption) *EventsHandler {
	ctx, cancel := context.WithCancel(context.Background())
	h := &EventsHandler{
		watcher:    watcher,
		logger:     zap.NewNop(),
		heartbeat:  30 * time.Second,
		maxClients: 256,
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Stop ends every open stream. Used on shutdown, since http.Server.Shutdown
// waits for handlers that never return on their own.
func (h *EventsHandler) Stop() {
	h.cancel()
}

// ClientCount returns the number of open streams
func (h *EventsHandler) ClientCount() int {
	return int(h.clients.Load())
}

// Stream subscribes to ?collection=customers|orders. The first event is the
// current collection; every later one follows a change.
func (h *EventsHandler) Stream(c *gin.Context) {
	if h.maxClients > 0 && h.clients.Load() >= h.maxClients {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeRateLimited, "Too many open event streams")
		return
	}

	collection := c.Query("collection")
	snapshots, stop, err := h.watcher.Watch(c.Request.Context(), collection)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer stop()

	h.clients.Add(1)
	defer h.clients.Add(-1)

	clientID := uuid.NewString()
	h.logger.Info("event stream opened",
		zap.String("client_id", clientID),
		zap.String("collection", collection))

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	reqCtx := c.Request.Context()
	for {
		select {
		case <-reqCtx.Done():
			h.logger.Info("event stream closed by client", zap.String("client_id", clientID))
			return
		case <-h.ctx.Done():
			h.logger.Info("event stream closed on shutdown", zap.String("client_id", clientID))
			return
		case <-ticker.C:
			h.sendEvent(c.Writer, SSEMessage{
				Event: EventHeartbeat,
				Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
			})
			c.Writer.Flush()
		case snapshot, ok := <-snapshots:
			if !ok {
				return
			}
			data, err := json.Marshal(snapshot)
			if err != nil {
				h.logger.Error("failed to encode snapshot", zap.Error(err))
				continue
			}
			h.sendEvent(c.Writer, SSEMessage{
				Event: EventSnapshot,
				Data:  string(data),
				ID:    strconv.FormatUint(snapshot.Version, 10),
			})
			c.Writer.Flush()
		}
	}
}

func (h *EventsHandler) sendEvent(w io.Writer, msg SSEMessage) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(w, "id: %s\n", msg.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}
