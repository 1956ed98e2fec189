package builder_test

import (
	"strings"
	"testing"

	testify "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/builder"
)

func TestFlowBuilder(t *testing.T) {
	as := testify.New(t)

	flow, err := builder.NewFlow("order-flow").
		WithVersion(2).
		WithTrigger("t1", "order.created").
		WithCondition("c1", "context.amount == 100").
		WithAction("a1", "https://example.com/hook").
		WithEdge("t1", "c1").
		WithEdgeIf("c1", "a1", "context.condition_met == true").
		Build()
	require.NoError(t, err)

	as.Equal(api.FlowID("order-flow"), flow.ID)
	as.Equal(2, flow.Version)
	as.Equal(api.FlowDraft, flow.Status)
	require.Len(t, flow.Nodes, 3)
	as.Equal(api.NodeTrigger, flow.Nodes[0].Type)
	as.Equal("order.created", flow.TriggerEventType())
	require.Len(t, flow.Edges, 2)
	as.Equal("context.condition_met == true", flow.Edges[1].Condition)
}

func TestFlowBuilderForking(t *testing.T) {
	as := testify.New(t)

	base := builder.NewFlow("base").
		WithTrigger("t1", "order.created")

	withAction := base.WithAction("a1", "https://example.com/hook")
	withReplay := base.WithReplay("r1", "audit")

	as.Len(base.MustBuild().Nodes, 1)
	as.Len(withAction.MustBuild().Nodes, 2)

	replayFlow := withReplay.MustBuild()
	require.Len(t, replayFlow.Nodes, 2)
	as.Equal(api.NodeReplay, replayFlow.Nodes[1].Type)
}

func TestFlowBuilderInvalid(t *testing.T) {
	as := testify.New(t)

	_, err := builder.NewFlow("").
		WithTrigger("t1", "order.created").
		Build()
	as.ErrorIs(err, api.ErrFlowIDEmpty)

	_, err = builder.NewFlow("dup").
		WithTrigger("t1", "order.created").
		WithApproval("t1").
		Build()
	as.ErrorIs(err, api.ErrDuplicateNodeID)

	as.Panics(func() {
		builder.NewFlow("").MustBuild()
	})
}

func TestStepsBuilder(t *testing.T) {
	as := testify.New(t)

	wf, err := builder.NewSteps().
		WithValidate("validate-event").
		WithArchive("archive-event").
		WithNotify("notify-ops", "https://example.com/ops").
		Build()
	require.NoError(t, err)
	require.Len(t, wf.Steps, 3)

	as.Equal(api.StepValidate, wf.Steps[0].Kind)
	as.Equal(api.StepArchive, wf.Steps[1].Kind)
	as.Equal(api.StepNotify, wf.Steps[2].Kind)
	as.Equal(
		"https://example.com/ops",
		wf.Steps[2].Data[api.NodeDataEndpoint],
	)

	_, err = builder.NewSteps().Build()
	as.ErrorIs(err, api.ErrWorkflowEmpty)
}

func TestEventBuilder(t *testing.T) {
	as := testify.New(t)

	event, err := builder.NewEvent("order.created", "commerce").
		WithData("amount", "100").
		WithData("currency", "EUR").
		WithCorrelationID("order-1").
		Build()
	require.NoError(t, err)

	as.Equal("order.created", event.Type)
	as.Equal("commerce", event.Source)
	as.Equal("100", event.Data["amount"])
	as.Equal("EUR", event.Data["currency"])
	as.Equal("order-1", event.CorrelationID())

	_, err = builder.NewEvent("", "commerce").Build()
	as.ErrorIs(err, api.ErrEventTypeEmpty)
}

func TestNewFlowID(t *testing.T) {
	as := testify.New(t)

	id := builder.NewFlowID("Order Flow")
	as.True(strings.HasPrefix(string(id), "order-flow-"))
	as.NotEqual(id, builder.NewFlowID("Order Flow"))
}
