package line

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"LineBridge/entity"
	"LineBridge/internal/lib/sl"
)

// Core is what the webhook needs from the rest of the service.
type Core interface {
	Bus
	ChannelSecret() string
	IsAllowed(chatID string) bool
	RecordPending(chat entity.PendingChat)
	LineApi() (API, error)
}

// LineBot ingests LINE webhook deliveries.
type LineBot struct {
	log      *slog.Logger
	core     Core
	handlers Handlers
	dedupe   *eventSet
}

func NewLineBot(core Core, handlers Handlers, log *slog.Logger) *LineBot {
	return &LineBot{
		log:      log.With(sl.Module("linebot")),
		core:     core,
		handlers: handlers,
	}
}

// EnableDedupe skips events whose webhookEventId was already dispatched.
func (b *LineBot) EnableDedupe(size int) {
	b.dedupe = newEventSet(size)
}

// HandleWebhook handles incoming webhook POST requests
func (b *LineBot) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	secret := b.core.ChannelSecret()
	if secret == "" {
		b.log.Warn("webhook called before setup")
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	cb, err := webhook.ParseRequest(secret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			b.log.Warn("invalid webhook signature", sl.Err(entity.ErrInvalidSignature))
		} else {
			b.log.Error("failed to parse webhook payload", sl.Err(fmt.Errorf("%w: %v", entity.ErrParseFailure, err)))
		}
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	err = b.Process(r.Context(), cb.Events)
	if err != nil {
		var unknown *entity.UnknownSender
		if errors.As(err, &unknown) {
			b.log.Warn("rejected delivery", slog.String("chat_id", unknown.ChatID))
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		b.log.Error("failed to process webhook", sl.Err(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Process handles events strictly in delivery order. The first event from a
// chat outside the allow-list aborts the whole batch; events before it have
// already been dispatched.
func (b *LineBot) Process(ctx context.Context, events []webhook.EventInterface) error {
	for _, event := range events {
		env := envelopeOf(event)
		if env.ReplyToken == TestReplyToken {
			b.log.Debug("webhook verification event")
			return nil
		}

		if !b.core.IsAllowed(env.ChatID) {
			if env.ChatID != "" {
				b.core.RecordPending(pendingChat(env, event))
			}
			return &entity.UnknownSender{ChatID: env.ChatID}
		}

		if b.dedupe != nil && b.dedupe.Has(env.EventID) {
			b.log.Debug("duplicate event skipped", slog.String("event_id", env.EventID))
			continue
		}

		kind := KindOf(event)
		handler, ok := b.handlers[kind]
		if !ok {
			b.log.Debug("no handler", slog.String("kind", kind.String()), slog.String("event_type", event.GetType()))
			continue
		}

		if err := handler(ctx, b.core, b.core.LineApi, event); err != nil {
			return fmt.Errorf("handle %s: %w", kind, err)
		}
		if b.dedupe != nil {
			b.dedupe.Add(env.EventID)
		}
	}
	return nil
}

func pendingChat(env envelope, event webhook.EventInterface) entity.PendingChat {
	raw, _ := json.Marshal(event)
	return entity.PendingChat{
		ChatID:     env.ChatID,
		SourceType: env.SourceType,
		EventType:  event.GetType(),
		Text:       displayText(event),
		ReceivedAt: time.Now(),
		Event:      raw,
	}
}

// displayText is what the operator sees when deciding whether to approve a chat.
func displayText(event webhook.EventInterface) string {
	switch e := event.(type) {
	case webhook.MessageEvent:
		if text, ok := e.Message.(webhook.TextMessageContent); ok {
			return text.Text
		}
		return KindOf(event).String()
	case webhook.PostbackEvent:
		if e.Postback != nil {
			return e.Postback.Data
		}
	}
	return event.GetType()
}
