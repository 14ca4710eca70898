package chats

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"LineBridge/internal/lib/api/response"
	"LineBridge/internal/lib/sl"
	"LineBridge/internal/lib/validate"
)

type RemoveRequest struct {
	Names []string `json:"names" validate:"required,min=1,dive,required"`
}

func (rr *RemoveRequest) Bind(_ *http.Request) error {
	return validate.Struct(rr)
}

func Remove(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.chats"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req RemoveRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Warn("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request: "+err.Error()))
			return
		}

		if err := handler.RemoveChats(r.Context(), req.Names); err != nil {
			logger.Error("remove chats", sl.Err(err))
			render.Status(r, statusOf(err))
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		render.JSON(w, r, response.Ok(handler.ListChats()))
	}
}
