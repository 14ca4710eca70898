package setup

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"LineBridge/internal/lib/api/response"
	"LineBridge/internal/lib/sl"
)

func Reload(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.setup"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err := handler.Reload(r.Context()); err != nil {
			logger.Error("reload", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Reload failed"))
			return
		}

		render.JSON(w, r, response.Ok("reloaded"))
	}
}
