package chats

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"LineBridge/internal/lib/api/response"
)

func List(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.Ok(handler.ListChats()))
	}
}

// PendingItem is a queued chat as the operator sees it.
type PendingItem struct {
	ChatID     string `json:"chat_id"`
	SourceType string `json:"source_type"`
	Label      string `json:"label"`
	Text       string `json:"text"`
}

func Pending(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pending := handler.ListPending()
		items := make([]PendingItem, 0, len(pending))
		for _, chat := range pending {
			items = append(items, PendingItem{
				ChatID:     chat.ChatID,
				SourceType: chat.SourceType,
				Label:      chat.Label(),
				Text:       chat.Text,
			})
		}
		render.JSON(w, r, response.Ok(items))
	}
}
