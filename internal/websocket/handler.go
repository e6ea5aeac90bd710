package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
)

// Handle returns an HTTP handler that upgrades connections to WebSocket and
// runs them as Hub clients.
func Handle(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // local single-user app, any origin
		})
		if err != nil {
			logger.Error("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn)
		client.Run(r.Context())
	}
}
