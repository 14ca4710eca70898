package key

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"LineBridge/internal/lib/api/cont"
	"LineBridge/internal/lib/api/response"
	"LineBridge/internal/lib/sl"
	"LineBridge/internal/lib/validate"
)

type Core interface {
	GenerateApiKey(ctx context.Context, username string) (string, error)
}

type Request struct {
	Username string `json:"username" validate:"required"`
}

func (k *Request) Bind(_ *http.Request) error {
	return validate.Struct(k)
}

// Generate issues an API key for hub clients. The same username always gets the same key.
func Generate(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.key"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if user := cont.GetUser(r.Context()); user != nil {
			logger = logger.With(slog.String("issued_by", user.Username))
		}

		var req Request
		if err := render.Bind(r, &req); err != nil {
			logger.Warn("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request: "+err.Error()))
			return
		}

		key, err := handler.GenerateApiKey(r.Context(), req.Username)
		if err != nil {
			logger.Error("generate api key", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to generate key"))
			return
		}
		logger.With(slog.String("username", req.Username)).Info("api key issued")

		render.JSON(w, r, response.Ok(map[string]string{"key": key}))
	}
}
