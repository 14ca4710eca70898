package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventWebhookTextReceived     = "line_webhook_text_received"
	EventWebhookPostbackReceived = "line_webhook_postback_received"
)

// BusEvent is the envelope delivered to hub bus sinks.
type BusEvent struct {
	ID        string         `json:"id"`
	Type      string         `json:"event_type"`
	TimeFired time.Time      `json:"time_fired"`
	Data      map[string]any `json:"data"`
}

func NewBusEvent(eventType string, data map[string]any) *BusEvent {
	return &BusEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		TimeFired: time.Now().UTC(),
		Data:      data,
	}
}
