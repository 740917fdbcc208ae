package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"peerprep/interview/internal/events"
	"peerprep/interview/internal/interview"
	"peerprep/interview/internal/models"
)

type EventsHandler struct {
	hub        *events.Hub
	controller *interview.Controller
	upgrader   websocket.Upgrader
	logger     *zap.Logger
}

// NewEventsHandler accepts websocket origins from allowedOrigins; "*" or an
// empty list admits any origin.
func NewEventsHandler(hub *events.Hub, controller *interview.Controller, allowedOrigins []string, logger *zap.Logger) *EventsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventsHandler{
		hub:        hub,
		controller: controller,
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// StreamHandler upgrades the connection, sends the current state and then
// relays controller events until the client disconnects.
func (h *EventsHandler) StreamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := events.NewClient(conn)
	client.Send(models.Event{
		Type:      models.EventSnapshot,
		Payload:   h.controller.State(),
		Timestamp: time.Now().UTC(),
	})
	h.hub.Join(client)
	h.logger.Debug("event stream connected", zap.Int("clients", h.hub.ClientCount()))

	go client.WritePump()
	client.ReadPump()

	h.hub.Leave(client)
	h.logger.Debug("event stream disconnected", zap.Int("clients", h.hub.ClientCount()))
}
