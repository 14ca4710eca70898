package line

import (
	"context"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// Kind identifies an inbound event by event type and, for message events, message type.
type Kind int

const (
	KindUnknown Kind = iota
	KindTextMessage
	KindImageMessage
	KindVideoMessage
	KindAudioMessage
	KindFileMessage
	KindLocationMessage
	KindStickerMessage
	KindOtherMessage
	KindPostback
	KindFollow
	KindUnfollow
	KindJoin
	KindLeave
	KindMemberJoined
	KindMemberLeft
	KindBeacon
)

var kindNames = map[Kind]string{
	KindUnknown:         "unknown",
	KindTextMessage:     "message.text",
	KindImageMessage:    "message.image",
	KindVideoMessage:    "message.video",
	KindAudioMessage:    "message.audio",
	KindFileMessage:     "message.file",
	KindLocationMessage: "message.location",
	KindStickerMessage:  "message.sticker",
	KindOtherMessage:    "message.other",
	KindPostback:        "postback",
	KindFollow:          "follow",
	KindUnfollow:        "unfollow",
	KindJoin:            "join",
	KindLeave:           "leave",
	KindMemberJoined:    "member_joined",
	KindMemberLeft:      "member_left",
	KindBeacon:          "beacon",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

func KindOf(event webhook.EventInterface) Kind {
	switch e := event.(type) {
	case webhook.MessageEvent:
		switch e.Message.(type) {
		case webhook.TextMessageContent:
			return KindTextMessage
		case webhook.ImageMessageContent:
			return KindImageMessage
		case webhook.VideoMessageContent:
			return KindVideoMessage
		case webhook.AudioMessageContent:
			return KindAudioMessage
		case webhook.FileMessageContent:
			return KindFileMessage
		case webhook.LocationMessageContent:
			return KindLocationMessage
		case webhook.StickerMessageContent:
			return KindStickerMessage
		}
		return KindOtherMessage
	case webhook.PostbackEvent:
		return KindPostback
	case webhook.FollowEvent:
		return KindFollow
	case webhook.UnfollowEvent:
		return KindUnfollow
	case webhook.JoinEvent:
		return KindJoin
	case webhook.LeaveEvent:
		return KindLeave
	case webhook.MemberJoinedEvent:
		return KindMemberJoined
	case webhook.MemberLeftEvent:
		return KindMemberLeft
	case webhook.BeaconEvent:
		return KindBeacon
	}
	return KindUnknown
}

// Bus is the hub event bus.
type Bus interface {
	Publish(ctx context.Context, eventType string, data map[string]any) error
}

// Handler reacts to an allowed event. lineApi is only called by handlers
// that talk back to LINE.
type Handler func(ctx context.Context, bus Bus, lineApi func() (API, error), event webhook.EventInterface) error

// Handlers is the dispatch table. A kind without an entry is accepted and ignored.
type Handlers map[Kind]Handler

func DefaultHandlers() Handlers {
	return Handlers{
		KindTextMessage: handleTextMessage,
		KindPostback:    handlePostback,
	}
}
