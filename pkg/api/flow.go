package api

import (
	"errors"
	"fmt"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/util"
)

type (
	FlowID     string
	NodeID     string
	NodeType   string
	FlowStatus string

	// Node is a typed unit of work in a flow graph
	Node struct {
		Data Data     `json:"data,omitempty"`
		ID   NodeID   `json:"id"`
		Type NodeType `json:"type"`
	}

	// Edge is a directed, optionally conditional connection between nodes
	Edge struct {
		Source    NodeID `json:"source"`
		Target    NodeID `json:"target"`
		Condition string `json:"condition,omitempty"`
	}

	// Approvals carries the advisory approval annotation attached by the
	// policy guard. It marks a flow as requiring council sign-off; it does
	// not itself block execution
	Approvals struct {
		Mode string `json:"mode"`
	}

	// Flow is a named, versioned, sealable directed graph of nodes and
	// edges. Once sealed, an (id, version) pair is immutable and further
	// changes require a new version
	Flow struct {
		Approvals *Approvals `json:"approvals,omitempty"`
		ID        FlowID     `json:"id"`
		Status    FlowStatus `json:"status"`
		Version   int        `json:"version"`
		Nodes     []Node     `json:"nodes"`
		Edges     []Edge     `json:"edges"`
	}

	// NodeTypeDescriptor describes a node type and its expected data keys,
	// consumed by editor and validation tooling
	NodeTypeDescriptor struct {
		DataSchema  map[string]string `json:"data_schema"`
		Type        NodeType          `json:"type"`
		Description string            `json:"description"`
	}
)

const (
	NodeTrigger     NodeType = "trigger"
	NodeAction      NodeType = "action"
	NodeCondition   NodeType = "condition"
	NodeReplay      NodeType = "replay"
	NodeRecognition NodeType = "recognition"
	NodeApproval    NodeType = "approval"

	FlowDraft  FlowStatus = "draft"
	FlowSealed FlowStatus = "sealed"

	// ApprovalModeCouncil is the advisory marker set by the policy guard
	ApprovalModeCouncil = "council_required"
)

// Node data keys recognized by the runner
const (
	NodeDataLabel     = "label"
	NodeDataExpr      = "expr"
	NodeDataEndpoint  = "endpoint"
	NodeDataEventType = "event_type"
	NodeDataAgent     = "agent"
	NodeDataRole      = "role"
	NodeDataMessage   = "message"
	NodeDataStorage   = "storage"
)

var (
	ErrFlowNotFound      = errors.New("flow not found")
	ErrFlowIDEmpty       = errors.New("flow ID empty")
	ErrNodeIDEmpty       = errors.New("node ID empty")
	ErrDuplicateNodeID   = errors.New("duplicate node ID")
	ErrInvalidNodeType   = errors.New("invalid node type")
	ErrInvalidVersion    = errors.New("flow version must be positive")
	ErrFlowVersionSealed = errors.New("flow version is sealed")
)

var validNodeTypes = util.SetOf(
	NodeTrigger,
	NodeAction,
	NodeCondition,
	NodeReplay,
	NodeRecognition,
	NodeApproval,
)

// SealedID is the externally citable, immutable reference to a sealed flow
// version
func (f *Flow) SealedID() string {
	return fmt.Sprintf("%s-v%d", f.ID, f.Version)
}

// IsSealed reports whether the flow version has been sealed
func (f *Flow) IsSealed() bool {
	return f.Status == FlowSealed
}

// Validate checks the structural shape of a flow. Edge references to
// missing nodes are deliberately not checked here; the runner fails fast
// on those at execution time
func (f *Flow) Validate() error {
	if f.ID == "" {
		return ErrFlowIDEmpty
	}
	if f.Version < 0 {
		return ErrInvalidVersion
	}

	seen := util.Set[NodeID]{}
	for _, n := range f.Nodes {
		if n.ID == "" {
			return ErrNodeIDEmpty
		}
		if seen.Contains(n.ID) {
			return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
		}
		seen.Add(n.ID)
		if !validNodeTypes.Contains(n.Type) {
			return fmt.Errorf("%w: %s", ErrInvalidNodeType, n.Type)
		}
	}
	return nil
}

// Clone returns a deep enough copy for handing to concurrent readers; node
// data maps are shared read-only by convention
func (f *Flow) Clone() *Flow {
	res := *f
	res.Nodes = append([]Node(nil), f.Nodes...)
	res.Edges = append([]Edge(nil), f.Edges...)
	if f.Approvals != nil {
		a := *f.Approvals
		res.Approvals = &a
	}
	return &res
}

// Triggers returns the ids of all trigger nodes in declaration order
func (f *Flow) Triggers() []NodeID {
	var res []NodeID
	for _, n := range f.Nodes {
		if n.Type == NodeTrigger {
			res = append(res, n.ID)
		}
	}
	return res
}

// TriggerEventType returns the event type a trigger node is bound to, if
// any of the flow's triggers declare one
func (f *Flow) TriggerEventType() string {
	for _, n := range f.Nodes {
		if n.Type != NodeTrigger {
			continue
		}
		if et, ok := n.Data[NodeDataEventType].(string); ok && et != "" {
			return et
		}
	}
	return ""
}

// Label returns the history label for the node, defaulting to its type
func (n *Node) Label() string {
	if l, ok := n.Data[NodeDataLabel].(string); ok && l != "" {
		return l
	}
	return string(n.Type)
}

// DataString returns a string-valued data field, or the given default
func (n *Node) DataString(key, def string) string {
	if v, ok := n.Data[key].(string); ok && v != "" {
		return v
	}
	return def
}
