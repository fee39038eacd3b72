package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/jdvalencia/lineup-showdown/lineup"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin filtering is handled by the CORS layer in front of us.
		return true
	},
}

type WebSocketHandler struct {
	hub    *lineup.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *lineup.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// Subscribe upgrades the connection and joins the room for the requested
// team combination. Lineup changes are pushed as LINEUP_UPDATED messages.
func (h *WebSocketHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	teamAID := r.URL.Query().Get("teamA")
	teamBID := r.URL.Query().Get("teamB")
	if teamAID == "" {
		badRequestResponse(w, r, errors.New("teamA query parameter is required"))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := &lineup.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: lineup.SnapshotKey(teamAID, teamBID),
	}
	h.hub.Register(client)
}
