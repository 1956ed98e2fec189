// Package recorder persists terminal run contexts for replay and audit.
// The runner itself never persists anything; the gateway records runs
// through this boundary so storage stays swappable.
package recorder

import (
	"context"
	"fmt"
	"sync"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

// Recorder is the storage boundary for completed run contexts
type Recorder interface {
	Record(context.Context, *api.RunContext) error
	Get(context.Context, string) (*api.RunContext, error)
}

// Memory is an in-process recorder used by tests and by deployments
// without a configured archive bucket
type Memory struct {
	runs map[string]*api.RunContext
	mu   sync.RWMutex
}

var _ Recorder = (*Memory)(nil)

// NewMemory creates an empty in-memory recorder
func NewMemory() *Memory {
	return &Memory{
		runs: map[string]*api.RunContext{},
	}
}

func (m *Memory) Record(_ context.Context, rc *api.RunContext) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[rc.RunID] = rc
	return nil
}

func (m *Memory) Get(
	_ context.Context, runID string,
) (*api.RunContext, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rc, ok := m.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", api.ErrRunNotFound, runID)
	}
	return rc, nil
}
