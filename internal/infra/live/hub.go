package live

import (
	"sync"

	"go.uber.org/zap"
)

// Event is a Server-Sent Event addressed to one topic (an RDO id).
type Event struct {
	Topic     string `json:"topic"`
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// Client is one connected SSE stream.
type Client struct {
	ID     string
	Topic  string
	Events chan Event
}

// Hub fans events out to the clients subscribed to a topic.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[string]*Client
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[string]*Client),
		log:     log,
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	byID, ok := h.clients[client.Topic]
	if !ok {
		byID = make(map[string]*Client)
		h.clients[client.Topic] = byID
	}
	byID[client.ID] = client
	h.log.Sugar().Debugw("sse client registered", "client", client.ID, "topic", client.Topic, "topic_clients", len(byID))
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	byID, ok := h.clients[client.Topic]
	if !ok {
		return
	}
	if c, ok := byID[client.ID]; ok {
		close(c.Events)
		delete(byID, client.ID)
	}
	if len(byID) == 0 {
		delete(h.clients, client.Topic)
	}
	h.log.Sugar().Debugw("sse client unregistered", "client", client.ID, "topic", client.Topic)
}

// Publish never blocks: a client whose buffer is full misses the event.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients[event.Topic] {
		select {
		case client.Events <- event:
		default:
			h.log.Sugar().Warnw("sse client buffer full, skipping event", "client", client.ID, "topic", event.Topic)
		}
	}
}

func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}
