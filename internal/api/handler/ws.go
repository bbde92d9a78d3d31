package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/casuskim/casus/internal/dependencies/identity"
	"github.com/casuskim/casus/internal/hub"
	"github.com/casuskim/casus/internal/realtime"
)

// WSHandler upgrades HTTP requests to game WebSocket connections
type WSHandler struct {
	hub      *hub.Hub
	ids      identity.Generator
	config   realtime.WSConfig
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWSHandler creates a new WebSocket handler. ids names the connections.
func NewWSHandler(hub *hub.Hub, ids identity.Generator, config realtime.WSConfig, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		ids:    ids,
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws")),
	}
}

// Serve handles GET /ws. It blocks for the lifetime of the connection.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	ch := realtime.NewWSChannel(h.ids.NewID(), conn, h.config, h.logger)
	h.logger.Info("websocket connected",
		slog.String("channel", ch.ID()),
		slog.String("remote_addr", r.RemoteAddr),
	)

	go ch.WritePump()
	ch.ReadPump(func(data []byte) {
		if err := h.hub.Submit(ch, data); err != nil {
			ch.Close()
		}
	})

	if err := h.hub.Disconnect(ch); err != nil {
		ch.Close()
	}
	h.logger.Info("websocket disconnected", slog.String("channel", ch.ID()))
}
