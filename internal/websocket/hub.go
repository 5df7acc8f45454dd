// internal/websocket/hub.go
package websocket

import (
	"context"

	"gymease-service/internal/domain/transaction"
	wstypes "gymease-service/internal/domain/websocket"

	"go.uber.org/zap"
)

// Hub fans transaction status changes out to the connections watching them.
// Only the Run goroutine touches the subscriber map.
type Hub struct {
	subscribers map[string]map[*Client]struct{}

	register   chan subscription
	unregister chan *Client
	broadcast  chan topicMessage
	reply      chan topicMessage
	count      chan countRequest

	done   chan struct{}
	logger *zap.Logger
}

type subscription struct {
	client  *Client
	initial *wstypes.WSMessage
}

type topicMessage struct {
	topic   string
	client  *Client
	message *wstypes.WSMessage
}

type countRequest struct {
	topic string
	out   chan int
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]map[*Client]struct{}),
		register:    make(chan subscription),
		unregister:  make(chan *Client),
		broadcast:   make(chan topicMessage, 256),
		reply:       make(chan topicMessage, 64),
		count:       make(chan countRequest),
		done:        make(chan struct{}),
		logger:      logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case sub := <-h.register:
			h.registerClient(sub)

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.publish(msg)

		case msg := <-h.reply:
			if h.registered(msg.client) {
				h.deliver(msg.client, msg.message)
			}

		case req := <-h.count:
			req.out <- len(h.subscribers[req.topic])
		}
	}
}

// Subscribe registers client; initial, when set, is the first frame it receives.
func (h *Hub) Subscribe(client *Client, initial *wstypes.WSMessage) error {
	if client.topic == "" {
		return ErrEmptyTopic
	}
	select {
	case h.register <- subscription{client: client, initial: initial}:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

// PublishStatus sends a transaction status change to everyone watching that transaction.
func (h *Hub) PublishStatus(event transaction.StatusEvent) {
	msg := topicMessage{
		topic:   event.Code,
		message: wstypes.NewMessage(wstypes.EventTypeTransactionStatus, event),
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
		h.logger.Warn("websocket broadcast queue full, status update dropped", zap.String("id_transaksi", event.Code))
	}
}

// Subscribers reports how many connections watch topic.
func (h *Hub) Subscribers(topic string) int {
	req := countRequest{topic: topic, out: make(chan int, 1)}
	select {
	case h.count <- req:
		return <-req.out
	case <-h.done:
		return 0
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) sendTo(client *Client, msg *wstypes.WSMessage) {
	select {
	case h.reply <- topicMessage{client: client, message: msg}:
	case <-h.done:
	}
}

func (h *Hub) registerClient(sub subscription) {
	c := sub.client
	if h.subscribers[c.topic] == nil {
		h.subscribers[c.topic] = make(map[*Client]struct{})
	}
	h.subscribers[c.topic][c] = struct{}{}

	h.logger.Debug("websocket client subscribed",
		zap.String("id_transaksi", c.topic),
		zap.Int("watchers", len(h.subscribers[c.topic])),
	)

	if sub.initial != nil {
		h.deliver(c, sub.initial)
	}
}

func (h *Hub) registered(c *Client) bool {
	_, ok := h.subscribers[c.topic][c]
	return ok
}

func (h *Hub) publish(msg topicMessage) {
	for c := range h.subscribers[msg.topic] {
		h.deliver(c, msg.message)
	}
}

// deliver never blocks; a client whose buffer is full is dropped.
func (h *Hub) deliver(c *Client, msg *wstypes.WSMessage) {
	data, err := msg.ToJSON()
	if err != nil {
		h.logger.Error("failed to marshal websocket message", zap.Error(err))
		return
	}
	select {
	case c.send <- data:
	default:
		h.logger.Warn("dropping slow websocket client", zap.String("id_transaksi", c.topic))
		h.remove(c)
	}
}

func (h *Hub) remove(c *Client) {
	clients, ok := h.subscribers[c.topic]
	if !ok {
		return
	}
	if _, exists := clients[c]; !exists {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.subscribers, c.topic)
	}
}

func (h *Hub) shutdown() {
	for topic, clients := range h.subscribers {
		for c := range clients {
			close(c.send)
		}
		delete(h.subscribers, topic)
	}
}
