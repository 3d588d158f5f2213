package realtime

import (
	"sync"

	"go.uber.org/zap"
)

const subscriberBuffer = 16

// Event is a message pushed to stream subscribers.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Subscription receives the events of one topic until cancelled.
type Subscription struct {
	C      <-chan Event
	topic  string
	ch     chan Event
	hub    *Hub
	closed bool
}

// Cancel detaches the subscription and closes its channel. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.hub.remove(s)
}

// Hub fans events out to the subscribers of a topic. Slow subscribers that fill their buffer are
// dropped rather than blocking publishers.
type Hub struct {
	mu     sync.Mutex
	topics map[string]map[*Subscription]struct{}
	logger *zap.Logger
	closed bool
}

// NewHub constructs an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{topics: make(map[string]map[*Subscription]struct{}), logger: logger}
}

// Subscribe registers interest in topic.
func (h *Hub) Subscribe(topic string) *Subscription {
	ch := make(chan Event, subscriberBuffer)
	sub := &Subscription{C: ch, topic: topic, ch: ch, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		sub.closed = true
		close(ch)
		return sub
	}
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.topics[topic] = subs
	}
	subs[sub] = struct{}{}
	return sub
}

// Publish delivers event to every current subscriber of topic.
func (h *Hub) Publish(topic string, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.topics[topic] {
		select {
		case sub.ch <- event:
		default:
			h.logger.Warn("dropping slow subscriber", zap.String("topic", topic), zap.String("event", event.Type))
			h.removeLocked(sub)
		}
	}
}

// Close ends every subscription. Later subscriptions are closed immediately.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, subs := range h.topics {
		for sub := range subs {
			h.removeLocked(sub)
		}
	}
	h.closed = true
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sub)
}

func (h *Hub) removeLocked(sub *Subscription) {
	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.ch)
	if subs, ok := h.topics[sub.topic]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.topics, sub.topic)
		}
	}
}
