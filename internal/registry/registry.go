// Package registry stores named, versioned flow definitions and manages
// their publish lifecycle. Storage is an injected repository so the core
// stays free of process-global state.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

type (
	// FlowRepository is the storage boundary for flow definitions.
	// Implementations must support concurrent reads; the registry
	// serializes writes
	FlowRepository interface {
		Get(context.Context, api.FlowID) (*api.Flow, error)
		Put(context.Context, *api.Flow) error
		List(context.Context) ([]*api.Flow, error)
	}

	// Registry fronts a repository with the save/publish lifecycle rules
	Registry struct {
		repo FlowRepository
		mu   sync.Mutex
	}
)

// New creates a registry over the given repository
func New(repo FlowRepository) *Registry {
	return &Registry{repo: repo}
}

// Save upserts a flow by id. A zero version defaults to 1 and a missing
// status defaults to draft. Writing over a sealed version is rejected;
// callers must bump the version instead
func (r *Registry) Save(
	ctx context.Context, flow *api.Flow,
) (api.FlowID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := flow.Clone()
	if res.Version == 0 {
		res.Version = 1
	}
	if res.Status == "" {
		res.Status = api.FlowDraft
	}
	if err := res.Validate(); err != nil {
		return "", err
	}

	stored, err := r.repo.Get(ctx, res.ID)
	if err == nil && stored.IsSealed() && stored.Version == res.Version {
		return "", fmt.Errorf(
			"%w: %s", api.ErrFlowVersionSealed, stored.SealedID(),
		)
	}

	if err := r.repo.Put(ctx, res); err != nil {
		return "", err
	}
	return res.ID, nil
}

// Get returns the stored flow or api.ErrFlowNotFound
func (r *Registry) Get(ctx context.Context, id api.FlowID) (*api.Flow, error) {
	return r.repo.Get(ctx, id)
}

// List returns all stored flows
func (r *Registry) List(ctx context.Context) ([]*api.Flow, error) {
	return r.repo.List(ctx)
}

// Publish seals the flow's current version and returns its citable
// sealed id. Sealing an already-sealed flow is idempotent: the same
// sealed id comes back and no error is raised
func (r *Registry) Publish(
	ctx context.Context, id api.FlowID,
) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	flow, err := r.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if flow.IsSealed() {
		return flow.SealedID(), nil
	}

	flow.Status = api.FlowSealed
	if err := r.repo.Put(ctx, flow); err != nil {
		return "", err
	}
	return flow.SealedID(), nil
}

// FindByEventType returns a flow whose trigger is bound to the given
// event type, preferring sealed flows over drafts. Returns
// api.ErrFlowNotFound when no flow is bound
func (r *Registry) FindByEventType(
	ctx context.Context, eventType string,
) (*api.Flow, error) {
	flows, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var draft *api.Flow
	for _, f := range flows {
		if f.TriggerEventType() != eventType {
			continue
		}
		if f.IsSealed() {
			return f, nil
		}
		if draft == nil {
			draft = f
		}
	}
	if draft != nil {
		return draft, nil
	}
	return nil, fmt.Errorf("%w: event type %s", api.ErrFlowNotFound, eventType)
}
