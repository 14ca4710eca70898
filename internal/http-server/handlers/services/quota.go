package services

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"LineBridge/entity"
	"LineBridge/internal/lib/api/response"
	"LineBridge/internal/lib/sl"
)

type QuotaResponse struct {
	TotalUsage int64 `json:"total_usage"`
}

func Quota(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r, "quota")

		usage, err := handler.Quota(r.Context())
		if err != nil {
			logger.Error("quota consumption", sl.Err(err))
			status := http.StatusBadGateway
			if errors.Is(err, entity.ErrNotConfigured) {
				status = http.StatusServiceUnavailable
			}
			render.Status(r, status)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		render.JSON(w, r, response.Ok(QuotaResponse{TotalUsage: usage}))
	}
}
