package builder

import (
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

// Event is a builder for canonical events
type Event struct {
	eventType string
	source    string
	data      api.Data
	meta      api.Data
}

// NewEvent creates an event builder with the required type and source
func NewEvent(eventType, source string) *Event {
	return &Event{eventType: eventType, source: source}
}

// WithData sets a payload field
func (e *Event) WithData(key string, value any) *Event {
	res := *e
	res.data = make(api.Data, len(e.data)+1)
	for k, v := range e.data {
		res.data[k] = v
	}
	res.data[key] = value
	return &res
}

// WithCorrelationID sets the correlation metadata
func (e *Event) WithCorrelationID(id string) *Event {
	res := *e
	res.meta = make(api.Data, len(e.meta)+1)
	for k, v := range e.meta {
		res.meta[k] = v
	}
	res.meta[api.MetaCorrelationID] = id
	return &res
}

// Build assembles and validates the event
func (e *Event) Build() (*api.Event, error) {
	res := &api.Event{
		Type:   e.eventType,
		Source: e.source,
		Data:   e.data,
		Meta:   e.meta,
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

// MustBuild assembles the event, panicking on validation failure
func (e *Event) MustBuild() *api.Event {
	res, err := e.Build()
	if err != nil {
		panic(err)
	}
	return res
}
