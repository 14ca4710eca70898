package line

import (
	"encoding/json"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"LineBridge/entity"
)

// TestReplyToken is the reply token LINE sends when the console verifies the webhook URL.
const TestReplyToken = "00000000000000000000000000000000"

// ChatID normalizes the three source kinds to one chat identifier.
func ChatID(source webhook.SourceInterface) (sourceType, chatID string) {
	switch s := source.(type) {
	case webhook.UserSource:
		return entity.SourceUser, s.UserId
	case webhook.GroupSource:
		return entity.SourceGroup, s.GroupId
	case webhook.RoomSource:
		return entity.SourceRoom, s.RoomId
	}
	return "", ""
}

type envelope struct {
	SourceType string
	ChatID     string
	ReplyToken string
	EventID    string
}

func envelopeOf(event webhook.EventInterface) envelope {
	var (
		env    envelope
		source webhook.SourceInterface
	)
	switch e := event.(type) {
	case webhook.MessageEvent:
		source, env.ReplyToken, env.EventID = e.Source, e.ReplyToken, e.WebhookEventId
	case webhook.PostbackEvent:
		source, env.ReplyToken, env.EventID = e.Source, e.ReplyToken, e.WebhookEventId
	case webhook.FollowEvent:
		source, env.ReplyToken, env.EventID = e.Source, e.ReplyToken, e.WebhookEventId
	case webhook.UnfollowEvent:
		source, env.EventID = e.Source, e.WebhookEventId
	case webhook.JoinEvent:
		source, env.ReplyToken, env.EventID = e.Source, e.ReplyToken, e.WebhookEventId
	case webhook.LeaveEvent:
		source, env.EventID = e.Source, e.WebhookEventId
	case webhook.MemberJoinedEvent:
		source, env.ReplyToken, env.EventID = e.Source, e.ReplyToken, e.WebhookEventId
	case webhook.MemberLeftEvent:
		source, env.EventID = e.Source, e.WebhookEventId
	case webhook.BeaconEvent:
		source, env.ReplyToken, env.EventID = e.Source, e.ReplyToken, e.WebhookEventId
	case webhook.UnsendEvent:
		source, env.EventID = e.Source, e.WebhookEventId
	case webhook.VideoPlayCompleteEvent:
		source, env.ReplyToken, env.EventID = e.Source, e.ReplyToken, e.WebhookEventId
	case webhook.AccountLinkEvent:
		source, env.ReplyToken, env.EventID = e.Source, e.ReplyToken, e.WebhookEventId
	case webhook.ThingsEvent:
		source, env.ReplyToken, env.EventID = e.Source, e.ReplyToken, e.WebhookEventId
	case webhook.ModuleEvent:
		source, env.EventID = e.Source, e.WebhookEventId
	case webhook.ActivatedEvent:
		source, env.EventID = e.Source, e.WebhookEventId
	case webhook.DeactivatedEvent:
		source, env.EventID = e.Source, e.WebhookEventId
	case webhook.BotSuspendedEvent:
		source, env.EventID = e.Source, e.WebhookEventId
	case webhook.BotResumedEvent:
		source, env.EventID = e.Source, e.WebhookEventId
	case webhook.PnpDeliveryCompletionEvent:
		source, env.EventID = e.Source, e.WebhookEventId
	case webhook.UnknownEvent:
		source, env.ReplyToken, env.EventID = rawEnvelope(e.Raw)
	}
	env.SourceType, env.ChatID = ChatID(source)
	return env
}

// rawEnvelope reads the common event fields of a type the SDK does not model.
func rawEnvelope(raw map[string]json.RawMessage) (source webhook.SourceInterface, replyToken, eventID string) {
	if data, ok := raw["source"]; ok {
		source, _ = webhook.UnmarshalSource(data)
	}
	if data, ok := raw["replyToken"]; ok {
		_ = json.Unmarshal(data, &replyToken)
	}
	if data, ok := raw["webhookEventId"]; ok {
		_ = json.Unmarshal(data, &eventID)
	}
	return source, replyToken, eventID
}
