package ws

import (
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"LineBridge/internal/lib/sl"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxFrameSize   = 4096
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one bus event consumer. events is owned by the hub goroutine.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	username string
	events   map[string]bool
	log      *slog.Logger
}

// request is a frame sent by the consumer. Subscribe replaces the event type
// filter, an empty list restores the full stream.
type request struct {
	Subscribe *[]string `json:"subscribe"`
}

type subscription struct {
	client *Client
	events map[string]bool
}

type subscribedFrame struct {
	Subscribed []string `json:"subscribed"`
}

func (c *Client) wants(eventType string) bool {
	return len(c.events) == 0 || c.events[eventType]
}

func (c *Client) eventTypes() []string {
	if len(c.events) == 0 {
		return []string{}
	}
	return slices.Sorted(maps.Keys(c.events))
}

// readPump reads subscription requests until the consumer goes away or
// stops answering pings.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("consumer connection lost", sl.Err(err))
			}
			return
		}

		var req request
		if err = json.Unmarshal(data, &req); err != nil || req.Subscribe == nil {
			c.log.Debug("ignoring consumer frame", slog.Int("size", len(data)))
			continue
		}
		c.hub.subscribe <- subscription{client: c, events: eventSet(*req.Subscribe)}
	}
}

// writePump writes queued bus events and keeps the connection alive with pings.
// It is the only writer on the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.log.Debug("write to consumer", sl.Err(err))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Authenticator validates a token and returns the username.
type Authenticator interface {
	ValidateToken(token string) (string, error)
}

// ServeWs upgrades a hub consumer connection. The token query parameter
// authenticates it; event_type optionally limits the stream to a
// comma-separated list of bus event types.
func ServeWs(hub *Hub, auth Authenticator, log *slog.Logger, w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	token := query.Get("token")
	if token == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	username, err := auth.ValidateToken(token)
	if err != nil {
		log.Debug("websocket token rejected", sl.Err(err))
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade failed", sl.Err(err))
		return
	}

	client := &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		username: username,
		events:   eventSet(strings.Split(query.Get("event_type"), ",")),
		log:      log.With(slog.String("username", username)),
	}

	hub.register <- client

	go client.writePump()
	go client.readPump()
}

func eventSet(types []string) map[string]bool {
	events := make(map[string]bool)
	for _, t := range types {
		if t = strings.TrimSpace(t); t != "" {
			events[t] = true
		}
	}
	return events
}
