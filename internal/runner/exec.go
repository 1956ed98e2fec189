package runner

import (
	"context"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/eval"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

// executeNode appends the history entry and performs the node's
// type-specific behavior. Missing optional data fields fall back to
// defaults rather than failing the run
func (r *Runner) executeNode(
	ctx context.Context, node *api.Node, rc *api.RunContext,
) error {
	rc.History = append(rc.History, api.HistoryEntry{
		NodeID: node.ID,
		Type:   node.Type,
		Label:  node.Label(),
	})

	switch node.Type {
	case api.NodeCondition:
		r.executeCondition(node, rc)
	case api.NodeAction:
		return r.executeAction(ctx, node, rc)
	case api.NodeRecognition:
		r.executeRecognition(node, rc)
	case api.NodeReplay:
		r.executeReplay(node, rc)
	case api.NodeApproval:
		rc.Approval = &api.ApprovalState{
			NodeID: node.ID,
			Status: api.ApprovalPending,
		}
	case api.NodeTrigger:
		// History entry only
	}
	return nil
}

// executeCondition records the expression result under the shared
// compatibility flag and a node-scoped flag
func (r *Runner) executeCondition(node *api.Node, rc *api.RunContext) {
	expr := node.DataString(api.NodeDataExpr, "")
	res := eval.Evaluate(expr, rc)
	rc.Flags[api.FlagConditionMet] = res
	rc.Flags[api.FlagConditionMet+":"+string(node.ID)] = res
}

// executeAction performs the configured outbound call. In dry-run mode
// the node is inert beyond its history entry
func (r *Runner) executeAction(
	ctx context.Context, node *api.Node, rc *api.RunContext,
) error {
	if rc.DryRun {
		return nil
	}

	endpoint := node.DataString(api.NodeDataEndpoint, r.defaultEndpoint)
	payload := api.Data{
		"run_id":  rc.RunID,
		"node_id": string(node.ID),
		"event": api.Data{
			"type":   rc.Event.Type,
			"source": rc.Event.Source,
			"data":   rc.Event.Data,
		},
	}
	if id := rc.Event.CorrelationID(); id != "" {
		payload[api.MetaCorrelationID] = id
	}
	return r.notifier.Notify(ctx, endpoint, payload)
}

func (r *Runner) executeRecognition(node *api.Node, rc *api.RunContext) {
	agent := node.DataString(api.NodeDataAgent, "")
	rc.Recognition = append(rc.Recognition, api.Recognition{
		Agent:   agent,
		Role:    node.DataString(api.NodeDataRole, api.DefaultRecognitionRole),
		Message: node.DataString(api.NodeDataMessage, ""),
	})
	if agent != "" {
		rc.Contributors = append(rc.Contributors, agent)
	}
}

func (r *Runner) executeReplay(node *api.Node, rc *api.RunContext) {
	rc.Replay = &api.Replay{
		Storage: node.DataString(api.NodeDataStorage, r.storageLabel),
		Mode:    api.ReplayModeNarrated,
	}
}
