package events

import (
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/util"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

// EventFilter decides whether a consumer receives an event
type EventFilter func(*Event) bool

// FilterTypes matches events of any of the given types
func FilterTypes(types ...Type) EventFilter {
	lookup := util.SetOf(types...)
	return func(ev *Event) bool {
		return lookup.Contains(ev.Type)
	}
}

// FilterFlow matches events belonging to a single flow
func FilterFlow(flowID api.FlowID) EventFilter {
	return func(ev *Event) bool {
		return ev.FlowID == flowID
	}
}

// FilterRun matches events belonging to a single run
func FilterRun(runID string) EventFilter {
	return func(ev *Event) bool {
		return ev.RunID == runID
	}
}

func OrFilters(filters ...EventFilter) EventFilter {
	return func(ev *Event) bool {
		for _, filter := range filters {
			if filter(ev) {
				return true
			}
		}
		return false
	}
}
