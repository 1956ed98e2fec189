package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

// MemoryRepository is an in-process FlowRepository used by tests and by
// deployments that opt out of Redis. Flows are cloned on the way in and
// out so no caller ever observes a half-updated definition
type MemoryRepository struct {
	flows map[api.FlowID]*api.Flow
	mu    sync.RWMutex
}

var _ FlowRepository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		flows: map[api.FlowID]*api.Flow{},
	}
}

func (m *MemoryRepository) Get(
	_ context.Context, id api.FlowID,
) (*api.Flow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	flow, ok := m.flows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", api.ErrFlowNotFound, id)
	}
	return flow.Clone(), nil
}

func (m *MemoryRepository) Put(_ context.Context, flow *api.Flow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flows[flow.ID] = flow.Clone()
	return nil
}

func (m *MemoryRepository) List(_ context.Context) ([]*api.Flow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make([]*api.Flow, 0, len(m.flows))
	for _, flow := range m.flows {
		res = append(res, flow.Clone())
	}
	return res, nil
}
