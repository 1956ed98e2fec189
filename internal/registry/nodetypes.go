package registry

import "github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"

// NodeTypes returns the static catalogue of supported node types and
// their expected data keys, consumed by editor and validation tooling
func NodeTypes() []api.NodeTypeDescriptor {
	return []api.NodeTypeDescriptor{
		{
			Type:        api.NodeTrigger,
			Description: "Graph entry point; execution starts from every trigger node",
			DataSchema: map[string]string{
				api.NodeDataEventType: "event type this trigger is bound to",
				api.NodeDataLabel:     "history label (optional)",
			},
		},
		{
			Type:        api.NodeAction,
			Description: "Performs an external side effect; inert in dry-run mode",
			DataSchema: map[string]string{
				api.NodeDataEndpoint: "notification endpoint URL",
				api.NodeDataLabel:    "history label (optional)",
			},
		},
		{
			Type:        api.NodeCondition,
			Description: "Evaluates an expression and records the result as a run flag",
			DataSchema: map[string]string{
				api.NodeDataExpr:  "condition expression",
				api.NodeDataLabel: "history label (optional)",
			},
		},
		{
			Type:        api.NodeRecognition,
			Description: "Appends a contribution record to the run context",
			DataSchema: map[string]string{
				api.NodeDataAgent:   "contributor name",
				api.NodeDataRole:    "contributor role (default \"contributor\")",
				api.NodeDataMessage: "recognition message (optional)",
			},
		},
		{
			Type:        api.NodeReplay,
			Description: "Attaches a replay/audit descriptor to the run context",
			DataSchema: map[string]string{
				api.NodeDataStorage: "archive storage label (optional)",
			},
		},
		{
			Type:        api.NodeApproval,
			Description: "Suspends traversal until an external approval signal resolves it",
			DataSchema: map[string]string{
				api.NodeDataLabel: "history label (optional)",
			},
		},
	}
}
