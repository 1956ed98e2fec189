package guard_test

import (
	"testing"

	testify "github.com/stretchr/testify/assert"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/config"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/guard"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/builder"
)

func testPrivacy() config.Privacy {
	return config.Privacy{
		PIIMinimization: true,
		RedactFields:    []string{"email", "phone"},
	}
}

func TestPrivacyRedact(t *testing.T) {
	as := testify.New(t)
	p := guard.NewPrivacy(testPrivacy())

	data := api.Data{
		"email":  "user@example.com",
		"phone":  "555-0100",
		"amount": "100",
	}
	res := p.Redact(data)

	as.Equal(guard.Redacted, res["email"])
	as.Equal(guard.Redacted, res["phone"])
	as.Equal("100", res["amount"])

	// The input map is never mutated
	as.Equal("user@example.com", data["email"])
}

func TestPrivacyRedactMissingFields(t *testing.T) {
	as := testify.New(t)
	p := guard.NewPrivacy(testPrivacy())

	data := api.Data{"amount": "100"}
	res := p.Redact(data)
	as.Equal(api.Data{"amount": "100"}, res)
}

func TestPrivacyDisabled(t *testing.T) {
	as := testify.New(t)
	p := guard.NewPrivacy(config.Privacy{
		PIIMinimization: false,
		RedactFields:    []string{"email"},
	})

	data := api.Data{"email": "user@example.com"}
	as.Equal("user@example.com", p.Redact(data)["email"])
}

func TestPolicyApply(t *testing.T) {
	as := testify.New(t)
	p := guard.NewPolicy(config.Approvals{
		CouncilRequiredEvents: []string{"payout.requested"},
	})

	flow := builder.NewFlow("payouts").
		WithTrigger("t1", "payout.requested").
		MustBuild()

	p.Apply(&api.Event{Type: "payout.requested"}, flow)
	as.NotNil(flow.Approvals)
	as.Equal(api.ApprovalModeCouncil, flow.Approvals.Mode)
}

func TestPolicyApplySkipsUnlistedEvents(t *testing.T) {
	as := testify.New(t)
	p := guard.NewPolicy(config.Approvals{
		CouncilRequiredEvents: []string{"payout.requested"},
	})

	flow := builder.NewFlow("orders").
		WithTrigger("t1", "order.created").
		MustBuild()

	p.Apply(&api.Event{Type: "order.created"}, flow)
	as.Nil(flow.Approvals)

	// Nil flows are tolerated on the fallback path
	p.Apply(&api.Event{Type: "payout.requested"}, nil)
}

func TestPipelinePrepare(t *testing.T) {
	as := testify.New(t)
	g := guard.NewPipeline(
		guard.NewPrivacy(testPrivacy()),
		guard.NewPolicy(config.Approvals{
			CouncilRequiredEvents: []string{"order.created"},
		}),
	)

	event := builder.NewEvent("order.created", "commerce").
		WithData("email", "user@example.com").
		WithData("amount", "100").
		MustBuild()
	flow := builder.NewFlow("orders").
		WithTrigger("t1", "order.created").
		MustBuild()

	res := g.Prepare(event, flow)

	as.Equal(guard.Redacted, res.Data["email"])
	as.Equal("100", res.Data["amount"])
	as.NotNil(flow.Approvals)

	// The original event is untouched
	as.Equal("user@example.com", event.Data["email"])
	as.NotSame(event, res)
}
