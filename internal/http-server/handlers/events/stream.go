package events

import (
	"log/slog"
	"net/http"

	"LineBridge/internal/lib/sl"
	"LineBridge/internal/ws"
)

// Stream upgrades hub clients to the bus event websocket.
func Stream(log *slog.Logger, hub *ws.Hub, auth ws.Authenticator) http.HandlerFunc {
	logger := log.With(sl.Module("http.handlers.events"))
	return func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(hub, auth, logger, w, r)
	}
}
