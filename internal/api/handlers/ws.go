package handlers

import (
	"net/http"

	"github.com/agentstationhq/station/internal/hub"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSHandler upgrades HTTP requests to WebSocket subscriptions on the
// notification hub.
type WSHandler struct {
	hub      *hub.Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(h *hub.Hub, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:    h,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Browser clients connect from arbitrary origins.
				return true
			},
		},
	}
}

// Serve handles GET /ws. The connection stays subscribed until the peer
// goes away or its deliveries start failing.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := hub.NewWSSubscriber(conn, h.logger)
	id := h.hub.Connect(sub)

	go sub.WritePump()

	// Block on the read pump so the handler scope owns the connection
	// lifetime; returning unsubscribes and closes.
	sub.ReadPump()

	h.hub.Disconnect(id)
	sub.Close()
}
