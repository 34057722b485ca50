package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/soar/padbridge/internal/gamepad"
	"github.com/soar/padbridge/internal/hub"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local use
	},
}

// StateSource supplies the live snapshot served by /api/state.
type StateSource interface {
	Snapshot() gamepad.State
}

func handleWebSocket(h *hub.Hub, b *hub.Broadcaster, handler hub.CommandHandler, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("WebSocket upgrade failed", zap.Error(err))
			return
		}

		client := hub.NewClient(h, conn)
		h.Register(client)
		b.SendInitialState(client)

		go client.WritePump()
		go client.ReadPump(handler)
	}
}

func handleState(src StateSource, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if err := json.NewEncoder(w).Encode(src.Snapshot()); err != nil {
			log.Warn("Writing state failed", zap.Error(err))
		}
	}
}
