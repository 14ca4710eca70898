package hass

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"LineBridge/entity"
	"LineBridge/internal/config"
	"LineBridge/internal/lib/sl"
)

// Forwarder fires bus events on a Home Assistant instance through its REST API.
type Forwarder struct {
	baseURL string
	token   string
	client  *http.Client
	log     *slog.Logger
}

func NewForwarder(conf *config.Config, log *slog.Logger) *Forwarder {
	timeout := conf.Hub.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Forwarder{
		baseURL: strings.TrimRight(conf.Hub.Url, "/"),
		token:   conf.Hub.Token,
		client:  &http.Client{Timeout: timeout},
		log:     log.With(sl.Module("hass")),
	}
}

// Publish posts the event data to /api/events/<event_type>. No retry.
func (f *Forwarder) Publish(ctx context.Context, event *entity.BusEvent) error {
	data := event.Data
	if data == nil {
		data = map[string]any{}
	}
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("hass: marshal: %w", err)
	}

	endpoint := f.baseURL + "/api/events/" + url.PathEscape(event.Type)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("hass: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("hass: post %s: %w", event.Type, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}
	f.log.Debug("event fired",
		slog.String("event_type", event.Type),
		slog.String("id", event.ID),
	)
	return nil
}

// APIError is a non-2xx answer from Home Assistant.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hass: status %d: %s", e.StatusCode, e.Message)
}
