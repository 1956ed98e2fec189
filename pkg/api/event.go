package api

import (
	"errors"
	"maps"
)

type (
	// Data is a free-form payload carried by events and nodes
	Data map[string]any

	// Event is the canonical form of an inbound integration event. Events
	// are immutable once produced by the normalizer; the guard pipeline
	// returns a redacted copy rather than mutating the original
	Event struct {
		Type   string `json:"type"`
		Source string `json:"source"`
		Data   Data   `json:"data"`
		Meta   Data   `json:"meta"`
	}
)

// MetaCorrelationID is the meta key carrying the cross-system trace id
const MetaCorrelationID = "correlation_id"

const EventTypeUnknown = "unknown"

var (
	ErrEventTypeEmpty   = errors.New("event type empty")
	ErrEventSourceEmpty = errors.New("event source empty")
)

// Validate checks that the event carries the minimum canonical shape
func (e *Event) Validate() error {
	if e.Type == "" {
		return ErrEventTypeEmpty
	}
	if e.Source == "" {
		return ErrEventSourceEmpty
	}
	return nil
}

// Clone returns a copy of the event with its own data and meta maps
func (e *Event) Clone() *Event {
	res := *e
	res.Data = maps.Clone(e.Data)
	res.Meta = maps.Clone(e.Meta)
	if res.Data == nil {
		res.Data = Data{}
	}
	if res.Meta == nil {
		res.Meta = Data{}
	}
	return &res
}

// CorrelationID returns the trace id assigned by the normalizer, if any
func (e *Event) CorrelationID() string {
	if e.Meta == nil {
		return ""
	}
	if id, ok := e.Meta[MetaCorrelationID].(string); ok {
		return id
	}
	return ""
}
