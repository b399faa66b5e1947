package api

import (
	"log/slog"
	"net/http"
	"time"

	"farmbot-backend/services/fishingbot"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the API is same-host tooling, not a public site
	CheckOrigin: func(r *http.Request) bool { return true },
}

const wsWriteTimeout = 10 * time.Second

// botEvents upgrades to a WebSocket and streams bot events. The first
// frame is a synthetic status event carrying the current state, so a
// client does not have to wait for the next transition to learn where the
// bot is. No history is replayed.
func (h *handler) botEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	events, unsubscribe := h.bot.Subscribe()
	defer unsubscribe()

	initial := fishingbot.Event{
		Type:      fishingbot.EventStatus,
		Timestamp: time.Now().UTC(),
		Data:      h.bot.State(),
	}
	if err := writeEvent(conn, initial); err != nil {
		return
	}

	// the read pump only detects the peer going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(conn, event); err != nil {
				slog.DebugContext(r.Context(), "websocket write failed", "err", err)
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, event fishingbot.Event) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(event)
}
