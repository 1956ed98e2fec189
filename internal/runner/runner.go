// Package runner executes workflows against canonical events. A graph
// flow is traversed breadth-first with at-most-once node execution; a
// step-list workflow executes its steps in order. Both variants share
// one entry point and produce the same run context shape.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/config"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/eval"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/notify"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/util"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

// Runner executes workflows. It holds no per-run state; every run owns
// its context exclusively, so a single runner serves concurrent runs
type Runner struct {
	notifier        notify.Notifier
	storageLabel    string
	defaultEndpoint string
}

var (
	ErrEdgeSourceMissing = errors.New("edge references missing source node")
	ErrEdgeTargetMissing = errors.New("edge references missing target node")
	ErrNodeMissing       = errors.New("node not found in flow")
	ErrRunNotPending     = errors.New("run is not pending approval")
)

// New creates a runner using the configured archive label and default
// notification endpoint
func New(cfg *config.Config, notifier notify.Notifier) *Runner {
	return &Runner{
		notifier:        notifier,
		storageLabel:    cfg.ArchiveStorageLabel,
		defaultEndpoint: cfg.NotifyEndpoint,
	}
}

// Run executes the workflow against the event and returns a fresh run
// context. In dry-run mode action side effects are suppressed but the
// traversal history is recorded as usual
func (r *Runner) Run(
	ctx context.Context, wf *api.Workflow, event *api.Event, dryRun bool,
) (*api.RunContext, error) {
	if err := wf.Validate(); err != nil {
		return nil, err
	}

	rc := &api.RunContext{
		RunID:  uuid.NewString(),
		Event:  event,
		Flags:  map[string]bool{},
		DryRun: dryRun,
	}

	if wf.Flow != nil {
		rc.FlowID = wf.Flow.ID
		return r.runGraph(ctx, wf.Flow, rc, wf.Flow.Triggers())
	}
	return r.runSteps(ctx, wf.Steps, rc)
}

// Resume continues a run suspended at an approval node. Approving
// re-enters the traversal with the residual frontier plus the approval
// node's eligible successors; rejecting terminates the run. At-most-once
// semantics hold across the suspension because the history doubles as
// the visited set
func (r *Runner) Resume(
	ctx context.Context, wf *api.Workflow, rc *api.RunContext, approve bool,
) (*api.RunContext, error) {
	if rc.Status != api.RunStatusPendingApproval || rc.Approval == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotPending, rc.RunID)
	}
	if wf.Flow == nil {
		return nil, api.ErrWorkflowEmpty
	}

	if !approve {
		rc.Approval.Status = api.ApprovalRejected
		rc.Status = api.RunStatusRejected
		rc.Pending = nil
		return rc, nil
	}

	approvalID := rc.Approval.NodeID
	rc.Approval.Status = api.ApprovalApproved

	// The residual frontier first, then the approval node's successors:
	// the same order the queue would have had without the suspension
	queue := append([]api.NodeID{}, rc.Pending...)
	rc.Pending = nil
	rc.Status = ""

	for _, e := range outgoing(wf.Flow, approvalID) {
		if e.Condition != "" && !eval.Evaluate(e.Condition, rc) {
			continue
		}
		queue = append(queue, e.Target)
	}
	return r.runGraph(ctx, wf.Flow, rc, queue)
}

// runGraph is the breadth-first, at-most-once traversal. The visited
// check happens at dequeue time, not enqueue time, so a node reachable
// via multiple paths is enqueued repeatedly but executes only once
func (r *Runner) runGraph(
	ctx context.Context, flow *api.Flow, rc *api.RunContext,
	queue []api.NodeID,
) (*api.RunContext, error) {
	nodes, err := indexNodes(flow)
	if err != nil {
		return nil, err
	}

	adjacency := map[api.NodeID][]api.Edge{}
	for _, e := range flow.Edges {
		adjacency[e.Source] = append(adjacency[e.Source], e)
	}

	visited := util.Set[api.NodeID]{}
	for _, h := range rc.History {
		visited.Add(h.NodeID)
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			// Partial history is returned, not discarded
			return rc, err
		}

		id := queue[0]
		queue = queue[1:]
		if visited.Contains(id) {
			continue
		}

		node, ok := nodes[id]
		if !ok {
			return rc, fmt.Errorf("%w: %s", ErrNodeMissing, id)
		}

		if err := r.executeNode(ctx, node, rc); err != nil {
			return rc, err
		}
		visited.Add(id)

		if node.Type == api.NodeApproval && rc.Approval != nil &&
			rc.Approval.Status == api.ApprovalPending {
			rc.Status = api.RunStatusPendingApproval
			rc.Pending = append([]api.NodeID{}, queue...)
			return rc, nil
		}

		for _, e := range adjacency[id] {
			if e.Condition != "" && !eval.Evaluate(e.Condition, rc) {
				continue
			}
			queue = append(queue, e.Target)
		}
	}

	finish(rc)
	return rc, nil
}

// indexNodes builds the node lookup and fails fast on edges referencing
// nodes absent from the flow. Silently skipping such edges would corrupt
// the audit history
func indexNodes(flow *api.Flow) (map[api.NodeID]*api.Node, error) {
	nodes := make(map[api.NodeID]*api.Node, len(flow.Nodes))
	for i := range flow.Nodes {
		nodes[flow.Nodes[i].ID] = &flow.Nodes[i]
	}
	for _, e := range flow.Edges {
		if _, ok := nodes[e.Source]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrEdgeSourceMissing, e.Source)
		}
		if _, ok := nodes[e.Target]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrEdgeTargetMissing, e.Target)
		}
	}
	return nodes, nil
}

func outgoing(flow *api.Flow, id api.NodeID) []api.Edge {
	var res []api.Edge
	for _, e := range flow.Edges {
		if e.Source == id {
			res = append(res, e)
		}
	}
	return res
}

func finish(rc *api.RunContext) {
	if rc.DryRun {
		rc.Status = api.RunStatusDryRun
		return
	}
	rc.Status = api.RunStatusExecuted
}
