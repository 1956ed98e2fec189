// Package wait provides test helpers that block until the event hub
// delivers a matching lifecycle event or a timeout elapses.
package wait

import (
	"testing"
	"time"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/events"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

// Wait subscribes to a hub and blocks on matching events
type Wait struct {
	t        *testing.T
	consumer *events.Consumer
	timeout  time.Duration
}

const DefaultTimeout = time.Second * 5

// New subscribes to the hub. Subscribe before triggering the behavior
// under test; the hub drops events published with no room in the buffer
func New(t *testing.T, hub *events.Hub) *Wait {
	t.Helper()
	w := &Wait{
		t:        t,
		consumer: hub.NewConsumer(),
		timeout:  DefaultTimeout,
	}
	t.Cleanup(w.consumer.Close)
	return w
}

// WithTimeout overrides the default wait timeout
func (w *Wait) WithTimeout(d time.Duration) *Wait {
	w.timeout = d
	return w
}

// For blocks until an event matching the filter arrives, returning it.
// Fails the test on timeout or hub shutdown
func (w *Wait) For(filter events.EventFilter) *events.Event {
	w.t.Helper()
	deadline := time.After(w.timeout)
	for {
		select {
		case ev, ok := <-w.consumer.Receive():
			if !ok {
				w.t.Fatal("event hub closed while waiting")
				return nil
			}
			if filter == nil || filter(ev) {
				return ev
			}
		case <-deadline:
			w.t.Fatal("timed out waiting for event")
			return nil
		}
	}
}

// ForRunCompleted blocks until the given run reports completion
func (w *Wait) ForRunCompleted(runID string) *events.Event {
	w.t.Helper()
	return w.For(func(ev *events.Event) bool {
		return ev.Type == events.TypeRunCompleted && ev.RunID == runID
	})
}

// ForFlowSealed blocks until the given flow is sealed
func (w *Wait) ForFlowSealed(flowID api.FlowID) *events.Event {
	w.t.Helper()
	return w.For(func(ev *events.Event) bool {
		return ev.Type == events.TypeFlowSealed && ev.FlowID == flowID
	})
}
