package line

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"LineBridge/internal/lib/sl"
)

type Webhook interface {
	HandleWebhook(w http.ResponseWriter, r *http.Request)
}

// Callback receives LINE webhook deliveries. It is not behind the API key,
// the channel signature authenticates the request instead.
func Callback(log *slog.Logger, webhook Webhook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		webhook.HandleWebhook(ww, r)

		log.With(
			sl.Module("http.handlers.line"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Int("status", ww.Status()),
		).Debug("line callback")
	}
}
