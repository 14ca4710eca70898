package line

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"LineBridge/entity"
)

const (
	exitCommand      = "bye"
	leavingGroupText = "Leaving group"
	cannotLeaveText  = "Bot can't leave from 1:1 chat"
)

func handleTextMessage(ctx context.Context, bus Bus, lineApi func() (API, error), event webhook.EventInterface) error {
	e, ok := event.(webhook.MessageEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	message, ok := e.Message.(webhook.TextMessageContent)
	if !ok {
		return fmt.Errorf("unexpected message %T", e.Message)
	}

	if message.Text == exitCommand {
		api, err := lineApi()
		if err != nil {
			return err
		}
		return exitChat(ctx, api, e)
	}

	return bus.Publish(ctx, entity.EventWebhookTextReceived, map[string]any{
		"reply_token": e.ReplyToken,
		"event":       asMap(e),
		"content":     asMap(message),
		"text":        message.Text,
	})
}

func handlePostback(ctx context.Context, bus Bus, _ func() (API, error), event webhook.EventInterface) error {
	e, ok := event.(webhook.PostbackEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}

	var (
		data   string
		params map[string]string
	)
	if e.Postback != nil {
		data = e.Postback.Data
		params = e.Postback.Params
	}

	return bus.Publish(ctx, entity.EventWebhookPostbackReceived, map[string]any{
		"reply_token": e.ReplyToken,
		"event":       asMap(e),
		"content":     asMap(e.Postback),
		"data":        data,
		"data_json":   ParseData(data),
		"params":      params,
	})
}

// exitChat says goodbye and leaves a group or room. A 1:1 chat cannot be left.
func exitChat(ctx context.Context, api API, e webhook.MessageEvent) error {
	switch s := e.Source.(type) {
	case webhook.GroupSource:
		if err := api.Reply(ctx, e.ReplyToken, &messaging_api.TextMessage{Text: leavingGroupText}); err != nil {
			return err
		}
		return api.LeaveGroup(ctx, s.GroupId)
	case webhook.RoomSource:
		if err := api.Reply(ctx, e.ReplyToken, &messaging_api.TextMessage{Text: leavingGroupText}); err != nil {
			return err
		}
		return api.LeaveRoom(ctx, s.RoomId)
	default:
		return api.Reply(ctx, e.ReplyToken, &messaging_api.TextMessage{Text: cannotLeaveText})
	}
}

// ParseData decodes URL-encoded postback data. The last value of a repeated
// key wins, pairs with a blank value are dropped and a malformed escape is
// kept as written.
func ParseData(data string) map[string]string {
	result := make(map[string]string)
	for _, pair := range strings.Split(data, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || value == "" {
			continue
		}
		result[unescape(key)] = unescape(value)
	}
	return result
}

func unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '+':
			b.WriteByte(' ')
		case s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c <= '9':
		return c - '0'
	case c <= 'F':
		return c - 'A' + 10
	}
	return c - 'a' + 10
}

func asMap(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err = json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
