package chats

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

type ApproveRequest struct {
	ChatID string `json:"chat_id" validate:"required"`
	Name   string `json:"name" validate:"required"`
}

func (a *ApproveRequest) Bind(_ *http.Request) error {
	return validate.Struct(a)
}

func Approve(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.chats"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req ApproveRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Warn("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request: "+err.Error()))
			return
		}
		logger = logger.With(slog.String("chat_id", req.ChatID), slog.String("name", req.Name))

		err := handler.ApproveChat(r.Context(), req.ChatID, req.Name)
		if err != nil {
			logger.Warn("approve chat", sl.Err(err))
			render.Status(r, statusOf(err))
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		logger.Info("chat approved")

		render.JSON(w, r, response.Ok(req))
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, entity.ErrNameRequired):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotPending):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, entity.ErrNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
