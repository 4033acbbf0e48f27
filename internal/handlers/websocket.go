package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/motif/internal/common"
	"github.com/ternarybob/motif/internal/services/events"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// WebSocketHandler pushes job lifecycle events to connected clients so a
// UI can react to completion without polling the status endpoint.
type WebSocketHandler struct {
	events *events.Service
	logger arbor.ILogger
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(eventService *events.Service, logger arbor.ILogger) *WebSocketHandler {
	return &WebSocketHandler{
		events: eventService,
		logger: logger,
	}
}

// HandleWebSocket upgrades the connection and forwards job events until
// the client disconnects.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("WebSocket client connected")

	eventCh, cancel := h.events.Subscribe()
	done := make(chan struct{})

	// Reader drains control frames and detects disconnect. The client is
	// not expected to send data messages.
	common.SafeGo(h.logger, "ws-reader", func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	common.SafeGo(h.logger, "ws-writer", func() {
		defer func() {
			cancel()
			conn.Close()
			h.logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("WebSocket client disconnected")
		}()

		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()

		for {
			select {
			case event, ok := <-eventCh:
				if !ok {
					return
				}
				conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteJSON(event); err != nil {
					return
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	})
}
