package setup

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"LineBridge/entity"
	"LineBridge/internal/lib/api/response"
	"LineBridge/internal/lib/sl"
	"LineBridge/internal/lib/validate"
)

type Request struct {
	AccessToken   string `json:"access_token" validate:"required"`
	ChannelSecret string `json:"channel_secret" validate:"required"`
}

func (s *Request) Bind(_ *http.Request) error {
	return validate.Struct(s)
}

// Setup stores new channel credentials once LINE accepts the access token.
func Setup(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.setup"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := render.Bind(r, &req); err != nil {
			logger.Warn("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request: "+err.Error()))
			return
		}
		logger = logger.With(sl.Secret("access_token", req.AccessToken))

		err := handler.Setup(r.Context(), req.AccessToken, req.ChannelSecret)
		if errors.Is(err, entity.ErrInvalidAuth) {
			logger.Warn("setup rejected", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid_auth"))
			return
		}
		if err != nil {
			logger.Error("setup", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Setup failed"))
			return
		}
		logger.Info("integration configured")

		render.JSON(w, r, response.Ok("configured"))
	}
}
