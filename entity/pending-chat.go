package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	SourceUser  = "user"
	SourceGroup = "group"
	SourceRoom  = "room"
)

// PendingChat is an event from a chat that is not on the allow-list yet.
type PendingChat struct {
	ChatID     string          `json:"chat_id"`
	SourceType string          `json:"source_type"`
	EventType  string          `json:"event_type"`
	Text       string          `json:"text"`
	ReceivedAt time.Time       `json:"received_at"`
	Event      json.RawMessage `json:"event,omitempty"`
}

// Label is the short operator-facing description used in selection lists.
func (p PendingChat) Label() string {
	id := p.ChatID
	if len(id) > 5 {
		id = id[:5]
	}
	return fmt.Sprintf("%s (%s)", id, p.Text)
}
