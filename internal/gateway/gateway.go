// Package gateway is the ingestion front of the orchestration core. It
// normalizes raw payloads, runs the guard pipeline, resolves the target
// workflow, and executes it under the configured retry policy and
// per-event deadline.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/config"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/events"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/guard"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/normalize"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/recorder"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/registry"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/retry"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/runner"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/log"
)

type (
	// Dependencies are the collaborators injected into the gateway
	Dependencies struct {
		Registry   *registry.Registry
		Runner     *runner.Runner
		Guards     *guard.Pipeline
		Normalizer *normalize.Normalizer
		Recorder   recorder.Recorder
		Hub        *events.Hub
	}

	// Gateway executes the ingestion pipeline. It also holds the table
	// of runs suspended at approval nodes; terminal runs go to the
	// recorder
	Gateway struct {
		deps    Dependencies
		retrier *retry.Retrier
		pending map[string]*pendingRun
		timeout time.Duration
		mu      sync.Mutex
	}

	pendingRun struct {
		wf *api.Workflow
		rc *api.RunContext
	}
)

// New creates a gateway with the configured retry policy and deadline
func New(cfg *config.Config, deps Dependencies) *Gateway {
	return &Gateway{
		deps:    deps,
		retrier: retry.New(&cfg.Retry),
		timeout: cfg.IngestTimeout,
		pending: map[string]*pendingRun{},
	}
}

// Ingest receives a raw payload from a source, normalizes it, and runs
// the matching workflow. The whole pipeline is retried per policy and
// bounded by the ingest deadline; normalization and guard failures are
// permanent and abort before any node executes
func (g *Gateway) Ingest(
	ctx context.Context, source, hint string, payload []byte,
) (*api.IngestResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var res *api.IngestResult
	err := g.retrier.Do(ctx, func(ctx context.Context) error {
		event, err := g.deps.Normalizer.Normalize(source, hint, payload)
		if err != nil {
			return retry.Permanent(err)
		}
		res, err = g.dispatch(ctx, event)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// IngestEvent receives an event already in canonical shape, bypassing
// source-specific normalization
func (g *Gateway) IngestEvent(
	ctx context.Context, event *api.Event,
) (*api.IngestResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var res *api.IngestResult
	err := g.retrier.Do(ctx, func(ctx context.Context) error {
		if err := event.Validate(); err != nil {
			return retry.Permanent(err)
		}
		var err error
		res, err = g.dispatch(ctx, event)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// dispatch applies the guard pipeline, resolves the workflow for the
// event type, and executes it. Unknown event types fall back to the
// built-in validate-then-archive step list rather than being rejected
func (g *Gateway) dispatch(
	ctx context.Context, event *api.Event,
) (*api.IngestResult, error) {
	var wf *api.Workflow

	flow, err := g.deps.Registry.FindByEventType(ctx, event.Type)
	switch {
	case err == nil:
		wf = api.GraphWorkflow(flow)
	case errors.Is(err, api.ErrFlowNotFound):
		wf = defaultWorkflow()
	default:
		return nil, err
	}

	redacted := g.deps.Guards.Prepare(event, wf.Flow)

	rc, err := g.execute(ctx, wf, redacted, false)
	if err != nil {
		return nil, err
	}

	return &api.IngestResult{
		Accepted:  true,
		EventType: redacted.Type,
		RunID:     rc.RunID,
	}, nil
}

// RunFlow executes a registered flow against an explicit event, used by
// the run endpoint. Guards run first so the redact-before-execute
// invariant holds on this path too
func (g *Gateway) RunFlow(
	ctx context.Context, flowID api.FlowID, event *api.Event, dryRun bool,
) (*api.RunContext, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	flow, err := g.deps.Registry.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}

	wf := api.GraphWorkflow(flow)
	redacted := g.deps.Guards.Prepare(event, wf.Flow)
	return g.execute(ctx, wf, redacted, dryRun)
}

// execute runs the workflow and routes the result: suspended runs go to
// the pending table, terminal runs to the recorder, and lifecycle events
// to the hub either way
func (g *Gateway) execute(
	ctx context.Context, wf *api.Workflow, event *api.Event, dryRun bool,
) (*api.RunContext, error) {
	rc, err := g.deps.Runner.Run(ctx, wf, event, dryRun)
	if err != nil {
		g.publishFailed(rc, event, err)
		return rc, classify(err)
	}

	return g.settle(ctx, wf, rc), nil
}

// Resolve applies an external approval signal to a suspended run.
// Approving resumes traversal; rejecting terminates the run. The pending
// entry is claimed before resuming, so concurrent signals for the same
// run race for the claim and exactly one of them resumes the traversal
func (g *Gateway) Resolve(
	ctx context.Context, runID string, approve bool,
) (*api.RunContext, error) {
	g.mu.Lock()
	p, ok := g.pending[runID]
	if ok {
		delete(g.pending, runID)
	}
	g.mu.Unlock()
	if !ok {
		return nil, api.ErrRunNotFound
	}

	rc, err := g.deps.Runner.Resume(ctx, p.wf, p.rc, approve)
	if err != nil {
		return nil, err
	}
	return g.settle(ctx, p.wf, rc), nil
}

// GetRun returns a run context, checking suspended runs before the
// recorder. Suspended contexts are snapshotted under the lock; the live
// context stays exclusively owned by the run that resumes it
func (g *Gateway) GetRun(
	ctx context.Context, runID string,
) (*api.RunContext, error) {
	g.mu.Lock()
	p, ok := g.pending[runID]
	if ok {
		snapshot := p.rc.Clone()
		g.mu.Unlock()
		return snapshot, nil
	}
	g.mu.Unlock()
	return g.deps.Recorder.Get(ctx, runID)
}

// settle routes a finished traversal: suspended runs go to the pending
// table and a detached snapshot is returned, so only a later Resolve
// touches the live context; terminal runs go to the recorder
func (g *Gateway) settle(
	ctx context.Context, wf *api.Workflow, rc *api.RunContext,
) *api.RunContext {
	if !rc.IsTerminal() {
		g.mu.Lock()
		g.pending[rc.RunID] = &pendingRun{wf: wf, rc: rc}
		g.mu.Unlock()

		g.deps.Hub.Publish(&events.Event{
			Type:      events.TypeRunStarted,
			RunID:     rc.RunID,
			FlowID:    rc.FlowID,
			EventType: rc.Event.Type,
			Status:    rc.Status,
		})
		return rc.Clone()
	}

	if err := g.deps.Recorder.Record(ctx, rc); err != nil {
		slog.Error("Failed to record run",
			log.RunID(rc.RunID), log.Error(err))
	}
	g.deps.Hub.Publish(&events.Event{
		Type:      events.TypeRunCompleted,
		RunID:     rc.RunID,
		FlowID:    rc.FlowID,
		EventType: rc.Event.Type,
		Status:    rc.Status,
	})
	return rc
}

func (g *Gateway) publishFailed(
	rc *api.RunContext, event *api.Event, err error,
) {
	ev := &events.Event{
		Type:      events.TypeRunFailed,
		EventType: event.Type,
	}
	if rc != nil {
		ev.RunID = rc.RunID
		ev.FlowID = rc.FlowID
	}
	g.deps.Hub.Publish(ev)
	slog.Warn("Workflow run failed",
		log.EventType(event.Type), log.Error(err))
}

// classify marks structural and validation failures as permanent so the
// retrier surfaces them immediately; everything else stays retryable
func classify(err error) error {
	switch {
	case errors.Is(err, runner.ErrEdgeSourceMissing),
		errors.Is(err, runner.ErrEdgeTargetMissing),
		errors.Is(err, runner.ErrNodeMissing),
		errors.Is(err, api.ErrWorkflowEmpty),
		errors.Is(err, api.ErrWorkflowAmbiguous),
		errors.Is(err, api.ErrEventTypeEmpty),
		errors.Is(err, api.ErrEventSourceEmpty):
		return retry.Permanent(err)
	}
	return err
}

// defaultWorkflow is the minimal fallback applied when no flow is
// registered for an event type: validate the event, then archive it
func defaultWorkflow() *api.Workflow {
	return api.StepListWorkflow(
		api.Step{Name: "validate-event", Kind: api.StepValidate},
		api.Step{Name: "archive-event", Kind: api.StepArchive},
	)
}
