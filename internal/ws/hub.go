package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"LineBridge/entity"
	"LineBridge/internal/lib/sl"
)

// Hub maintains the set of connected hub clients and broadcasts bus events to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *entity.BusEvent
	register   chan *Client
	unregister chan *Client
	subscribe  chan subscription
	mu         sync.RWMutex
	log        *slog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *entity.BusEvent, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subscribe:  make(chan subscription),
		log:        log.With(sl.Module("ws.hub")),
	}
}

// Run starts the hub's event loop. Should be called in a goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Debug("client connected", slog.String("username", client.username))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case sub := <-h.subscribe:
			h.mu.Lock()
			if _, ok := h.clients[sub.client]; ok {
				sub.client.events = sub.events
				ack, _ := json.Marshal(subscribedFrame{Subscribed: sub.client.eventTypes()})
				h.deliver(sub.client, ack)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				h.log.Error("marshal event", sl.Err(err))
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				if client.wants(event.Type) {
					h.deliver(client, data)
				}
			}
			h.mu.Unlock()
		}
	}
}

// deliver queues a frame for client and drops a client that cannot keep up.
// The caller holds mu.
func (h *Hub) deliver(client *Client, frame []byte) {
	select {
	case client.send <- frame:
	default:
		h.log.Warn("dropping slow consumer", slog.String("username", client.username))
		close(client.send)
		delete(h.clients, client)
	}
}

// Publish queues event for every subscribed client.
func (h *Hub) Publish(ctx context.Context, event *entity.BusEvent) error {
	select {
	case h.broadcast <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
