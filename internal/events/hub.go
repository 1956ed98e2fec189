// Package events is a small in-process fan-out hub for run lifecycle
// events, feeding the WebSocket stream and any other observers.
package events

import (
	"sync"
	"time"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/util"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

type (
	Type string

	// Event is a run lifecycle notification
	Event struct {
		Type      Type          `json:"type"`
		RunID     string        `json:"run_id,omitempty"`
		FlowID    api.FlowID    `json:"flow_id,omitempty"`
		EventType string        `json:"event_type,omitempty"`
		Status    api.RunStatus `json:"status,omitempty"`
		SealedID  string        `json:"sealed_id,omitempty"`
		Timestamp int64         `json:"timestamp"`
	}

	// Hub fans events out to registered consumers. Publishing never
	// blocks: consumers that fall behind their buffer miss events
	Hub struct {
		consumers util.Set[*Consumer]
		mu        sync.Mutex
		closed    bool
	}

	// Consumer receives hub events over a buffered channel. A nil
	// filter receives everything
	Consumer struct {
		hub    *Hub
		ch     chan *Event
		filter EventFilter
	}
)

const (
	TypeRunStarted   Type = "run_started"
	TypeRunCompleted Type = "run_completed"
	TypeRunFailed    Type = "run_failed"
	TypeFlowSealed   Type = "flow_sealed"
)

const consumerBufferSize = 64

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		consumers: util.Set[*Consumer]{},
	}
}

// NewConsumer registers a new consumer with the hub
func (h *Hub) NewConsumer() *Consumer {
	return h.NewFilteredConsumer(nil)
}

// NewFilteredConsumer registers a consumer that only receives events
// matching the filter
func (h *Hub) NewFilteredConsumer(filter EventFilter) *Consumer {
	c := &Consumer{
		hub:    h,
		ch:     make(chan *Event, consumerBufferSize),
		filter: filter,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(c.ch)
		return c
	}
	h.consumers.Add(c)
	return c
}

// Publish delivers the event to every consumer that has buffer space.
// Slow consumers are skipped, never blocked on
func (h *Hub) Publish(ev *Event) {
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().UnixMilli()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for c := range h.consumers {
		if c.filter != nil && !c.filter(ev) {
			continue
		}
		select {
		case c.ch <- ev:
		default:
		}
	}
}

// Close shuts the hub down and closes all consumer channels
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.consumers {
		close(c.ch)
	}
	h.consumers = util.Set[*Consumer]{}
}

// Receive returns the consumer's event channel. It is closed when the
// consumer or the hub shuts down
func (c *Consumer) Receive() <-chan *Event {
	return c.ch
}

// Close unregisters the consumer from the hub
func (c *Consumer) Close() {
	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	if c.hub.closed || !c.hub.consumers.Contains(c) {
		return
	}
	c.hub.consumers.Remove(c)
	close(c.ch)
}
