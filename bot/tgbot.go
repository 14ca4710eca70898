package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"

	"LineBridge/entity"
	"LineBridge/internal/lib/sl"
)

// Core is the allow-list administration the admin bot exposes.
type Core interface {
	ListChats() []entity.ChatEntry
	ListPending() []entity.PendingChat
	ApproveChat(ctx context.Context, chatID, name string) error
	RemoveChats(ctx context.Context, names []string) error
}

// TgBot reports to the administrator and accepts allow-list commands from them.
type TgBot struct {
	log         *slog.Logger
	api         *tgbotapi.Bot
	botUsername string
	adminId     int64
	core        Core
}

func NewTgBot(botName, apiKey string, adminId int64, log *slog.Logger) (*TgBot, error) {
	tgBot := &TgBot{
		log:         log.With(sl.Module("tgbot")),
		adminId:     adminId,
		botUsername: botName,
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	tgBot.api = api

	return tgBot, nil
}

func (t *TgBot) SetCore(core Core) {
	t.core = core
}

// Start polls for updates until the process exits.
func (t *TgBot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		// If an error is returned by a handler, log it and continue going.
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			t.log.Error("handling update", sl.Err(err))
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(dispatcher, nil)

	dispatcher.AddHandler(handlers.NewCommand("chats", t.command(t.chatsText)))
	dispatcher.AddHandler(handlers.NewCommand("pending", t.command(t.pendingText)))
	dispatcher.AddHandler(handlers.NewCommand("approve", t.command(t.approve)))
	dispatcher.AddHandler(handlers.NewCommand("remove", t.command(t.remove)))

	err := updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}
	t.log.With(slog.String("bot", t.botUsername)).Info("admin bot started")

	updater.Idle()
	return nil
}

func (t *TgBot) SendMessage(msg string) {
	t.plainResponse(t.adminId, msg)
}

// NotifyPending asks the administrator to approve a new chat.
func (t *TgBot) NotifyPending(chat entity.PendingChat) {
	t.SendMessage(pendingNotice(chat))
}

func pendingNotice(chat entity.PendingChat) string {
	return fmt.Sprintf("New LINE %s chat waiting for approval:\n%s\nchat_id: %s\n\n/approve %s <name>",
		chat.SourceType, chat.Label(), chat.ChatID, chat.ChatID)
}

// command wraps a text command so that only the administrator gets an answer.
func (t *TgBot) command(run func(args []string) string) handlers.Response {
	return func(b *tgbotapi.Bot, ctx *ext.Context) error {
		if ctx.EffectiveUser == nil || ctx.EffectiveUser.Id != t.adminId {
			t.log.With(slog.Int64("chat_id", ctx.EffectiveChat.Id)).Warn("command from unknown user")
			return nil
		}
		if t.core == nil {
			t.plainResponse(ctx.EffectiveChat.Id, "Service is not ready")
			return nil
		}
		args := ctx.Args()
		if len(args) > 0 {
			args = args[1:]
		}
		t.plainResponse(ctx.EffectiveChat.Id, run(args))
		return nil
	}
}

func (t *TgBot) chatsText(_ []string) string {
	chats := t.core.ListChats()
	if len(chats) == 0 {
		return "No allowed chats"
	}
	var sb strings.Builder
	sb.WriteString("Allowed chats:")
	for _, chat := range chats {
		sb.WriteString(fmt.Sprintf("\n%s: %s", chat.DisplayName, chat.ChatID))
	}
	return sb.String()
}

func (t *TgBot) pendingText(_ []string) string {
	pending := t.core.ListPending()
	if len(pending) == 0 {
		return "No chats waiting for approval"
	}
	var sb strings.Builder
	sb.WriteString("Waiting for approval:")
	for _, chat := range pending {
		sb.WriteString(fmt.Sprintf("\n%s %s", chat.ChatID, chat.Label()))
	}
	return sb.String()
}

// approve handles "/approve <chat_id> <name>". The name may contain spaces.
func (t *TgBot) approve(args []string) string {
	if len(args) < 2 {
		return "Usage: /approve <chat_id> <name>"
	}
	chatID, name := args[0], strings.Join(args[1:], " ")

	err := t.core.ApproveChat(context.Background(), chatID, name)
	switch {
	case err == nil:
		return fmt.Sprintf("Chat %s approved as '%s'", chatID, name)
	case errors.Is(err, entity.ErrNotPending):
		return fmt.Sprintf("Chat %s is not waiting for approval", chatID)
	case errors.Is(err, entity.ErrDuplicateName):
		return fmt.Sprintf("Name '%s' is already in use", name)
	default:
		t.log.With(sl.Err(err)).Error("approve chat")
		return fmt.Sprintf("Approve failed: %v", err)
	}
}

func (t *TgBot) remove(args []string) string {
	if len(args) == 0 {
		return "Usage: /remove <name> [name...]"
	}
	if err := t.core.RemoveChats(context.Background(), args); err != nil {
		t.log.With(sl.Err(err)).Error("remove chats")
		return fmt.Sprintf("Remove failed: %v", err)
	}
	return fmt.Sprintf("Removed: %s", strings.Join(args, ", "))
}

func (t *TgBot) plainResponse(chatId int64, text string) {
	if t.api == nil {
		return
	}

	sanitized := sanitize(text)
	if sanitized == "" {
		t.log.With(
			slog.Int64("id", chatId),
		).Debug("empty message")
		return
	}

	_, err := t.api.SendMessage(chatId, sanitized, &tgbotapi.SendMessageOpts{
		ParseMode: "MarkdownV2",
	})
	if err != nil {
		t.log.With(
			slog.Int64("id", chatId),
		).Warn("sending message", sl.Err(err))
		_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{})
		if err != nil {
			t.log.With(
				slog.Int64("id", chatId),
			).Error("sending safe message", sl.Err(err))
		}
	}
}

// sanitize escapes MarkdownV2 reserved characters.
func sanitize(input string) string {
	const reservedChars = "\\`_*{}#+-.!|()[]<>=~"

	var sb strings.Builder
	for _, char := range input {
		if strings.ContainsRune(reservedChars, char) {
			sb.WriteRune('\\')
		}
		sb.WriteRune(char)
	}
	return sb.String()
}
