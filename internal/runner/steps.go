package runner

import (
	"context"
	"fmt"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

// runSteps executes the ordered step-list workflow variant. It backs the
// ingestion fallback for event types with no registered flow
func (r *Runner) runSteps(
	ctx context.Context, steps []api.Step, rc *api.RunContext,
) (*api.RunContext, error) {
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return rc, err
		}

		name := step.Name
		if name == "" {
			name = string(step.Kind)
		}
		rc.History = append(rc.History, api.HistoryEntry{
			NodeID: api.NodeID(name),
			Type:   api.NodeType(step.Kind),
			Label:  name,
		})

		switch step.Kind {
		case api.StepValidate:
			if err := rc.Event.Validate(); err != nil {
				return rc, fmt.Errorf("event validation failed: %w", err)
			}
		case api.StepArchive:
			rc.Replay = &api.Replay{
				Storage: r.storageLabel,
				Mode:    api.ReplayModeNarrated,
			}
		case api.StepNotify:
			if rc.DryRun {
				continue
			}
			endpoint := r.defaultEndpoint
			if e, ok := step.Data[api.NodeDataEndpoint].(string); ok && e != "" {
				endpoint = e
			}
			payload := api.Data{
				"run_id": rc.RunID,
				"step":   name,
				"event": api.Data{
					"type":   rc.Event.Type,
					"source": rc.Event.Source,
					"data":   rc.Event.Data,
				},
			}
			if err := r.notifier.Notify(ctx, endpoint, payload); err != nil {
				return rc, err
			}
		}
	}

	finish(rc)
	return rc, nil
}
