// Package codex is the event-driven workflow orchestration core. It accepts
// inbound integration events, normalizes and guards them, and executes
// declarative flows against them.
package codex

const (
	// Name is the service name reported in logs
	Name = "codex"

	// Version is the service version reported in logs
	Version = "0.2.0"
)
