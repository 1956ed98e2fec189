package builder

import (
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

// Flow is a builder for assembling flow graphs
type Flow struct {
	id      api.FlowID
	version int
	nodes   []api.Node
	edges   []api.Edge
}

// NewFlow creates a new flow builder with the specified ID
func NewFlow(id api.FlowID) *Flow {
	return &Flow{id: id, version: 1}
}

// WithVersion sets the flow version
func (f *Flow) WithVersion(version int) *Flow {
	res := *f
	res.version = version
	return &res
}

// WithTrigger adds a trigger node bound to an event type
func (f *Flow) WithTrigger(id api.NodeID, eventType string) *Flow {
	return f.withNode(api.Node{
		ID:   id,
		Type: api.NodeTrigger,
		Data: api.Data{api.NodeDataEventType: eventType},
	})
}

// WithCondition adds a condition node evaluating the given expression
func (f *Flow) WithCondition(id api.NodeID, expr string) *Flow {
	return f.withNode(api.Node{
		ID:   id,
		Type: api.NodeCondition,
		Data: api.Data{api.NodeDataExpr: expr},
	})
}

// WithAction adds an action node targeting the given endpoint
func (f *Flow) WithAction(id api.NodeID, endpoint string) *Flow {
	return f.withNode(api.Node{
		ID:   id,
		Type: api.NodeAction,
		Data: api.Data{api.NodeDataEndpoint: endpoint},
	})
}

// WithRecognition adds a recognition node crediting an agent
func (f *Flow) WithRecognition(id api.NodeID, agent, role string) *Flow {
	return f.withNode(api.Node{
		ID:   id,
		Type: api.NodeRecognition,
		Data: api.Data{
			api.NodeDataAgent: agent,
			api.NodeDataRole:  role,
		},
	})
}

// WithReplay adds a replay node recording to the given storage label
func (f *Flow) WithReplay(id api.NodeID, storage string) *Flow {
	return f.withNode(api.Node{
		ID:   id,
		Type: api.NodeReplay,
		Data: api.Data{api.NodeDataStorage: storage},
	})
}

// WithApproval adds an approval node that suspends traversal
func (f *Flow) WithApproval(id api.NodeID) *Flow {
	return f.withNode(api.Node{ID: id, Type: api.NodeApproval})
}

// WithNode adds an arbitrary node
func (f *Flow) WithNode(n api.Node) *Flow {
	return f.withNode(n)
}

// WithEdge adds an unconditional edge
func (f *Flow) WithEdge(source, target api.NodeID) *Flow {
	return f.WithEdgeIf(source, target, "")
}

// WithEdgeIf adds an edge gated by a condition expression
func (f *Flow) WithEdgeIf(source, target api.NodeID, cond string) *Flow {
	res := *f
	res.edges = append(
		append([]api.Edge(nil), f.edges...),
		api.Edge{Source: source, Target: target, Condition: cond},
	)
	return &res
}

// Build assembles and validates the flow
func (f *Flow) Build() (*api.Flow, error) {
	res := &api.Flow{
		ID:      f.id,
		Version: f.version,
		Status:  api.FlowDraft,
		Nodes:   append([]api.Node(nil), f.nodes...),
		Edges:   append([]api.Edge(nil), f.edges...),
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

// MustBuild assembles the flow, panicking on validation failure. Intended
// for statically known graphs, typically in tests
func (f *Flow) MustBuild() *api.Flow {
	res, err := f.Build()
	if err != nil {
		panic(err)
	}
	return res
}

func (f *Flow) withNode(n api.Node) *Flow {
	res := *f
	res.nodes = append(append([]api.Node(nil), f.nodes...), n)
	return &res
}
