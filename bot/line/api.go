package line

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"LineBridge/internal/lib/sl"
)

// API is the subset of the LINE Messaging API the bridge calls.
type API interface {
	Reply(ctx context.Context, replyToken string, messages ...messaging_api.MessageInterface) error
	Push(ctx context.Context, to string, messages ...messaging_api.MessageInterface) error
	LeaveGroup(ctx context.Context, groupID string) error
	LeaveRoom(ctx context.Context, roomID string) error
	QuotaConsumption(ctx context.Context) (int64, error)
}

// Client adapts the SDK client to API. The SDK calls are blocking and take
// no context, so each call runs on its own goroutine and the caller waits
// for the result or for ctx to end, whichever comes first.
type Client struct {
	api *messaging_api.MessagingApiAPI
	log *slog.Logger
}

func NewClient(accessToken string, timeout time.Duration, log *slog.Logger) (*Client, error) {
	api, err := messaging_api.NewMessagingApiAPI(
		accessToken,
		messaging_api.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating messaging api client: %w", err)
	}
	return &Client{
		api: api,
		log: log.With(sl.Module("line.client")),
	}, nil
}

func (c *Client) Reply(ctx context.Context, replyToken string, messages ...messaging_api.MessageInterface) error {
	return run(ctx, func() error {
		_, err := c.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
			ReplyToken: replyToken,
			Messages:   messages,
		})
		if err != nil {
			return fmt.Errorf("reply message: %w", err)
		}
		c.log.Debug("reply sent", slog.Int("messages", len(messages)))
		return nil
	})
}

func (c *Client) Push(ctx context.Context, to string, messages ...messaging_api.MessageInterface) error {
	return run(ctx, func() error {
		_, err := c.api.PushMessage(&messaging_api.PushMessageRequest{
			To:       to,
			Messages: messages,
		}, "")
		if err != nil {
			return fmt.Errorf("push message: %w", err)
		}
		c.log.Debug("push sent", slog.String("to", to), slog.Int("messages", len(messages)))
		return nil
	})
}

func (c *Client) LeaveGroup(ctx context.Context, groupID string) error {
	return run(ctx, func() error {
		if _, err := c.api.LeaveGroup(groupID); err != nil {
			return fmt.Errorf("leave group: %w", err)
		}
		c.log.Info("left group", slog.String("group_id", groupID))
		return nil
	})
}

func (c *Client) LeaveRoom(ctx context.Context, roomID string) error {
	return run(ctx, func() error {
		if _, err := c.api.LeaveRoom(roomID); err != nil {
			return fmt.Errorf("leave room: %w", err)
		}
		c.log.Info("left room", slog.String("room_id", roomID))
		return nil
	})
}

func (c *Client) QuotaConsumption(ctx context.Context) (int64, error) {
	var usage int64
	err := run(ctx, func() error {
		resp, err := c.api.GetMessageQuotaConsumption()
		if err != nil {
			return fmt.Errorf("get quota consumption: %w", err)
		}
		usage = resp.TotalUsage
		return nil
	})
	return usage, err
}

func run(ctx context.Context, call func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		done <- call()
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
