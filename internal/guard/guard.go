// Package guard implements the pipeline stages that inspect and annotate
// an event and its target flow before any node executes: privacy
// redaction first, then policy annotation, so no downstream node ever
// observes raw PII.
package guard

import (
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/config"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/util"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

type (
	// Privacy redacts configured PII fields from event data
	Privacy struct {
		fields  util.Set[string]
		enabled bool
	}

	// Policy attaches advisory approval annotations to flows
	Policy struct {
		councilEvents util.Set[string]
	}

	// Pipeline runs both guards in their fixed order
	Pipeline struct {
		privacy *Privacy
		policy  *Policy
	}
)

// Redacted is the sentinel written over redacted field values
const Redacted = "***redacted***"

// NewPrivacy creates a privacy guard from the loaded policy document
func NewPrivacy(cfg config.Privacy) *Privacy {
	return &Privacy{
		enabled: cfg.PIIMinimization,
		fields:  util.SetOf(cfg.RedactFields...),
	}
}

// Redact returns a copy of data with configured fields replaced by the
// redaction sentinel. When minimization is disabled the input is returned
// unchanged. Pure with respect to its inputs
func (p *Privacy) Redact(data api.Data) api.Data {
	if !p.enabled || len(data) == 0 {
		return data
	}
	res := make(api.Data, len(data))
	for k, v := range data {
		if p.fields.Contains(k) {
			res[k] = Redacted
			continue
		}
		res[k] = v
	}
	return res
}

// NewPolicy creates a policy guard from the loaded policy document
func NewPolicy(cfg config.Approvals) *Policy {
	return &Policy{
		councilEvents: util.SetOf(cfg.CouncilRequiredEvents...),
	}
}

// Apply annotates the flow when the event type requires council
// approval. The annotation is advisory only; enforcement is modeled by
// approval nodes, not by this guard
func (p *Policy) Apply(event *api.Event, flow *api.Flow) {
	if flow == nil || !p.councilEvents.Contains(event.Type) {
		return
	}
	flow.Approvals = &api.Approvals{Mode: api.ApprovalModeCouncil}
}

// NewPipeline wires both guards in redact-before-annotate order
func NewPipeline(privacy *Privacy, policy *Policy) *Pipeline {
	return &Pipeline{privacy: privacy, policy: policy}
}

// Prepare returns a redacted copy of the event and applies policy
// annotations to the flow. The original event is never mutated
func (g *Pipeline) Prepare(event *api.Event, flow *api.Flow) *api.Event {
	res := event.Clone()
	res.Data = g.privacy.Redact(res.Data)
	g.policy.Apply(res, flow)
	return res
}
