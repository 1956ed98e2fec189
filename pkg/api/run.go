package api

import (
	"errors"
	"maps"
	"slices"
)

type (
	RunStatus string

	// HistoryEntry records a single executed node, in traversal order
	HistoryEntry struct {
		NodeID NodeID   `json:"node_id"`
		Type   NodeType `json:"type"`
		Label  string   `json:"label"`
	}

	// Recognition is a contribution record appended by recognition nodes
	Recognition struct {
		Agent   string `json:"agent"`
		Role    string `json:"role"`
		Message string `json:"message,omitempty"`
	}

	// Replay is the audit descriptor attached by replay nodes
	Replay struct {
		Storage string `json:"storage"`
		Mode    string `json:"mode"`
	}

	// ApprovalState tracks a suspended traversal awaiting an external
	// approval signal
	ApprovalState struct {
		NodeID NodeID `json:"node_id"`
		Status string `json:"status"`
	}

	// RunContext is the run-scoped accumulator produced by executing a
	// workflow against an event. Each run owns its context exclusively;
	// contexts are never shared between concurrent runs
	RunContext struct {
		Event        *Event          `json:"event"`
		Flags        map[string]bool `json:"flags"`
		Replay       *Replay         `json:"replay,omitempty"`
		Approval     *ApprovalState  `json:"approval,omitempty"`
		RunID        string          `json:"run_id"`
		FlowID       FlowID          `json:"flow_id,omitempty"`
		Status       RunStatus       `json:"status"`
		History      []HistoryEntry  `json:"history"`
		Recognition  []Recognition   `json:"recognition,omitempty"`
		Contributors []string        `json:"contributors,omitempty"`
		Pending      []NodeID        `json:"pending,omitempty"`
		DryRun       bool            `json:"dry_run"`
	}
)

const (
	RunStatusDryRun          RunStatus = "dry_run"
	RunStatusExecuted        RunStatus = "executed"
	RunStatusPendingApproval RunStatus = "pending_approval"
	RunStatusRejected        RunStatus = "rejected"

	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"

	// FlagConditionMet is the shared flag key written by condition nodes.
	// Node-scoped keys are written alongside it, but this one is the
	// compatibility default that edge conditions typically test
	FlagConditionMet = "condition_met"

	// ReplayModeNarrated is the only replay mode currently produced
	ReplayModeNarrated = "narrated"

	// DefaultRecognitionRole is used when a recognition node omits a role
	DefaultRecognitionRole = "contributor"
)

var ErrRunNotFound = errors.New("run not found")

// Executed reports whether the node already appears in the run history.
// History carries exactly one entry per executed node, so it doubles as
// the visited set when a suspended run resumes
func (rc *RunContext) Executed(id NodeID) bool {
	for _, h := range rc.History {
		if h.NodeID == id {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the run has finished traversal
func (rc *RunContext) IsTerminal() bool {
	return rc.Status != RunStatusPendingApproval
}

// Clone returns a deep copy of the run context. Suspended runs stay
// resumable through the original; the clone is a detached snapshot
func (rc *RunContext) Clone() *RunContext {
	res := *rc
	res.Flags = maps.Clone(rc.Flags)
	res.History = slices.Clone(rc.History)
	res.Recognition = slices.Clone(rc.Recognition)
	res.Contributors = slices.Clone(rc.Contributors)
	res.Pending = slices.Clone(rc.Pending)
	if rc.Event != nil {
		res.Event = rc.Event.Clone()
	}
	if rc.Replay != nil {
		replay := *rc.Replay
		res.Replay = &replay
	}
	if rc.Approval != nil {
		approval := *rc.Approval
		res.Approval = &approval
	}
	return &res
}
