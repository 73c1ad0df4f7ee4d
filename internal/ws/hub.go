package ws

import (
	"sync"

	"github.com/google/uuid"
)

// Verdict is a delivery filter's decision for one event.
type Verdict int

const (
	Deliver Verdict = iota
	// Skip withholds this event but keeps the subscription.
	Skip
	// Revoke withholds the event and drops the subscription.
	Revoke
)

// Filter is consulted before every event is queued for a client.
type Filter func(topic string) Verdict

// Client represents a single WebSocket connection with user context.
type Client struct {
	ID     string
	UserID uint
	Role   string
	Send   chan []byte
	hub    *Hub
	filter Filter
	mu     sync.Mutex
	closed bool
}

// SetFilter installs f. Call it before the client subscribes to anything.
func (c *Client) SetFilter(f Filter) {
	c.filter = f
}

func NewClient(hub *Hub, userID uint, role string, buffer int) *Client {
	if buffer <= 0 {
		buffer = 256
	}
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Role:   role,
		Send:   make(chan []byte, buffer),
		hub:    hub,
	}
}

// Enqueue hands data to the write pump without blocking. It reports false
// when the buffer is full or the client is closed.
func (c *Client) Enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// Close drops every subscription and closes Send. Safe to call twice.
func (c *Client) Close() {
	if c.hub != nil {
		c.hub.removeClient(c)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// Hub maps topics to subscribed clients. It only fans out bytes; it never
// touches the store.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Client]struct{}
	// client -> topics it is subscribed to
	byClient map[*Client]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		topics:   make(map[string]map[*Client]struct{}),
		byClient: make(map[*Client]map[string]struct{}),
	}
}

func (h *Hub) Subscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Client]struct{})
	}
	h.topics[topic][c] = struct{}{}
	if h.byClient[c] == nil {
		h.byClient[c] = make(map[string]struct{})
	}
	h.byClient[c][topic] = struct{}{}
}

func (h *Hub) Unsubscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unsubscribeLocked(c, topic)
}

func (h *Hub) unsubscribeLocked(c *Client, topic string) {
	if m := h.topics[topic]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.topics, topic)
		}
	}
	if m := h.byClient[c]; m != nil {
		delete(m, topic)
		if len(m) == 0 {
			delete(h.byClient, c)
		}
	}
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for topic := range h.byClient[c] {
		h.unsubscribeLocked(c, topic)
	}
}

// Publish enqueues data for every subscriber of topic and returns how many
// accepted it. Slow or closed subscribers are skipped. Filters run outside
// the hub lock.
func (h *Hub) Publish(topic string, data []byte) int {
	h.mu.RLock()
	m := h.topics[topic]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range clients {
		if c.filter != nil {
			switch c.filter(topic) {
			case Skip:
				continue
			case Revoke:
				h.Unsubscribe(c, topic)
				continue
			}
		}
		if c.Enqueue(data) {
			delivered++
		}
	}
	return delivered
}
