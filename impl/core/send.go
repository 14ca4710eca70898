package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"LineBridge/bot/line"
	"LineBridge/entity"
)

// LineApi returns a client for the stored access token.
func (c *Core) LineApi() (line.API, error) {
	entry := c.snapshot()
	if !entry.Configured() || entry.AccessToken == "" {
		return nil, entity.ErrNotConfigured
	}

	c.apiMu.Lock()
	defer c.apiMu.Unlock()

	if c.api != nil && c.apiToken == entry.AccessToken {
		return c.api, nil
	}
	if c.newApi == nil {
		return nil, fmt.Errorf("line api factory is not set")
	}

	api, err := c.newApi(entry.AccessToken)
	if err != nil {
		return nil, err
	}
	c.api = api
	c.apiToken = entry.AccessToken
	return api, nil
}

func (c *Core) cacheApi(token string, api line.API) {
	c.apiMu.Lock()
	c.api = api
	c.apiToken = token
	c.apiMu.Unlock()
}

// Send delivers one message. A reply token wins over the display name and
// skips the allow-list entirely.
func (c *Core) Send(ctx context.Context, message messaging_api.MessageInterface, to, replyToken string) error {
	var chatID string
	if replyToken == "" {
		allowed := c.allowList()
		id, ok := allowed.Resolve(to)
		if !ok {
			return &entity.ChatIdNotFound{Name: to, AllowedNames: allowed.Names()}
		}
		chatID = id
	}

	api, err := c.LineApi()
	if err != nil {
		return err
	}

	if replyToken != "" {
		if err = api.Reply(ctx, replyToken, message); err != nil {
			return fmt.Errorf("reply message: %w", err)
		}
		c.log.Debug("message replied")
		return nil
	}

	if err = api.Push(ctx, chatID, message); err != nil {
		return fmt.Errorf("push message to '%s': %w", to, err)
	}
	c.log.With(slog.String("to", to)).Debug("message pushed")
	return nil
}

func (c *Core) SendMessage(ctx context.Context, req *entity.SendMessageRequest) error {
	message, err := line.BuildMessage(req.Message)
	if err != nil {
		return err
	}
	return c.Send(ctx, message, req.To, req.ReplyToken)
}

func (c *Core) SendButtonMessage(ctx context.Context, req *entity.ButtonMessageRequest) error {
	message := line.ButtonsMessage(req.Text, req.AltText, req.Buttons)
	return c.Send(ctx, message, req.To, req.ReplyToken)
}

func (c *Core) SendConfirmMessage(ctx context.Context, req *entity.ConfirmMessageRequest) error {
	message := line.ConfirmMessage(req.Text, req.AltText, req.Buttons)
	return c.Send(ctx, message, req.To, req.ReplyToken)
}

// SendText pushes a plain text message to an allow-listed chat.
func (c *Core) SendText(ctx context.Context, to, text string) error {
	return c.Send(ctx, &messaging_api.TextMessage{Text: text}, to, "")
}

// Quota returns the number of messages sent this month.
func (c *Core) Quota(ctx context.Context) (int64, error) {
	api, err := c.LineApi()
	if err != nil {
		return 0, err
	}
	return api.QuotaConsumption(ctx)
}
