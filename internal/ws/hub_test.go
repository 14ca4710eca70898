package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"LineBridge/entity"
)

type staticAuth struct{}

func (staticAuth) ValidateToken(token string) (string, error) {
	if token != "good" {
		return "", errors.New("bad token")
	}
	return "hub", nil
}

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, staticAuth{}, log, w, r)
	}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want %d", hub.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) entity.BusEvent {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var event entity.BusEvent
	if err = json.Unmarshal(data, &event); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return event
}

func TestPublishReachesClient(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "token=good")
	waitClients(t, hub, 1)

	event := entity.NewBusEvent(entity.EventWebhookTextReceived, map[string]any{"text": "hi"})
	if err := hub.Publish(context.Background(), event); err != nil {
		t.Fatal(err)
	}

	got := readEvent(t, conn)
	if got.ID != event.ID || got.Type != entity.EventWebhookTextReceived || got.Data["text"] != "hi" {
		t.Errorf("got %+v", got)
	}
}

func TestSubscriptionFilter(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "token=good&event_type="+entity.EventWebhookPostbackReceived)
	waitClients(t, hub, 1)

	ctx := context.Background()
	hub.Publish(ctx, entity.NewBusEvent(entity.EventWebhookTextReceived, nil))
	hub.Publish(ctx, entity.NewBusEvent(entity.EventWebhookPostbackReceived, map[string]any{"data": "a=1"}))

	got := readEvent(t, conn)
	if got.Type != entity.EventWebhookPostbackReceived {
		t.Errorf("received %q, want only postback events", got.Type)
	}
}

func TestUnauthorized(t *testing.T) {
	_, srv := startHub(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?token=bad"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("response = %v", resp)
	}
}

func readSubscribed(t *testing.T, conn *websocket.Conn) []string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var frame subscribedFrame
	if err = json.Unmarshal(data, &frame); err != nil || frame.Subscribed == nil {
		t.Fatalf("not a subscription ack: %s", data)
	}
	return frame.Subscribed
}

func TestSubscribeReplacesFilter(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "token=good&event_type="+entity.EventWebhookPostbackReceived)
	waitClients(t, hub, 1)

	if err := conn.WriteJSON(map[string]any{"subscribe": []string{entity.EventWebhookTextReceived}}); err != nil {
		t.Fatal(err)
	}
	if got := readSubscribed(t, conn); len(got) != 1 || got[0] != entity.EventWebhookTextReceived {
		t.Fatalf("subscribed = %v", got)
	}

	ctx := context.Background()
	hub.Publish(ctx, entity.NewBusEvent(entity.EventWebhookPostbackReceived, nil))
	hub.Publish(ctx, entity.NewBusEvent(entity.EventWebhookTextReceived, map[string]any{"text": "hi"}))

	if got := readEvent(t, conn); got.Type != entity.EventWebhookTextReceived {
		t.Errorf("received %q, want text events only", got.Type)
	}
}

func TestEmptySubscribeRestoresFullStream(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "token=good&event_type="+entity.EventWebhookPostbackReceived)
	waitClients(t, hub, 1)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(map[string]any{"subscribe": []string{}}); err != nil {
		t.Fatal(err)
	}
	if got := readSubscribed(t, conn); len(got) != 0 {
		t.Fatalf("subscribed = %v, want all events", got)
	}

	hub.Publish(context.Background(), entity.NewBusEvent(entity.EventWebhookTextReceived, nil))
	if got := readEvent(t, conn); got.Type != entity.EventWebhookTextReceived {
		t.Errorf("received %q", got.Type)
	}
}
