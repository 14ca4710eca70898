package services

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"LineBridge/entity"
	"LineBridge/internal/lib/api/response"
	"LineBridge/internal/lib/sl"
)

func SendMessage(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r, "send_message")

		var req entity.SendMessageRequest
		if err := render.Bind(r, &req); err != nil {
			badRequest(w, r, logger, err)
			return
		}
		logger = logger.With(slog.String("to", req.To), slog.String("type", req.Message.Type))

		if err := handler.SendMessage(r.Context(), &req); err != nil {
			sendFailed(w, r, logger, err)
			return
		}
		logger.Debug("message sent")

		render.JSON(w, r, response.Ok(nil))
	}
}

func SendButtonMessage(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r, "send_button_message")

		var req entity.ButtonMessageRequest
		if err := render.Bind(r, &req); err != nil {
			badRequest(w, r, logger, err)
			return
		}
		logger = logger.With(slog.String("to", req.To))

		if err := handler.SendButtonMessage(r.Context(), &req); err != nil {
			sendFailed(w, r, logger, err)
			return
		}
		logger.Debug("button message sent")

		render.JSON(w, r, response.Ok(nil))
	}
}

func SendConfirmMessage(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r, "send_confirm_message")

		var req entity.ConfirmMessageRequest
		if err := render.Bind(r, &req); err != nil {
			badRequest(w, r, logger, err)
			return
		}
		logger = logger.With(slog.String("to", req.To))

		if err := handler.SendConfirmMessage(r.Context(), &req); err != nil {
			sendFailed(w, r, logger, err)
			return
		}
		logger.Debug("confirm message sent")

		render.JSON(w, r, response.Ok(nil))
	}
}

func requestLogger(log *slog.Logger, r *http.Request, service string) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.services"),
		slog.String("service", service),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func badRequest(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	logger.Warn("invalid request", sl.Err(err))
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, response.Error("Invalid request: "+err.Error()))
}

// sendFailed maps a delivery error to its HTTP status.
func sendFailed(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var notFound *entity.ChatIdNotFound
	switch {
	case errors.As(err, &notFound):
		logger.Warn("unknown chat name", sl.Err(err))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.ErrorData(err.Error(), notFound.AllowedNames))
	case errors.Is(err, entity.ErrUnsupportedMessage):
		logger.Warn("unsupported message", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
	case errors.Is(err, entity.ErrNotConfigured):
		logger.Warn("send before setup", sl.Err(err))
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error(err.Error()))
	default:
		logger.Error("delivery failed", sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("Delivery failed: "+err.Error()))
	}
}
