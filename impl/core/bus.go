package core

import (
	"context"
	"log/slog"

	"LineBridge/entity"
	"LineBridge/internal/lib/sl"
)

// Publish fires an event on every sink. Sink failures are logged only, the
// webhook delivery that produced the event still succeeds.
func (c *Core) Publish(ctx context.Context, eventType string, data map[string]any) error {
	event := entity.NewBusEvent(eventType, data)
	log := c.log.With(
		slog.String("event_type", eventType),
		slog.String("event_id", event.ID),
	)

	for _, sink := range c.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			log.With(sl.Err(err)).Warn("publish event")
		}
	}
	log.Debug("event published")
	return nil
}
