package eval_test

import (
	"testing"

	testify "github.com/stretchr/testify/assert"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/eval"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

func testContext() *api.RunContext {
	return &api.RunContext{
		Event: &api.Event{
			Type:   "order.created",
			Source: "commerce",
			Data: api.Data{
				"amount":   "100",
				"currency": "EUR",
				"priority": true,
				"count":    float64(3),
			},
		},
		Flags: map[string]bool{
			api.FlagConditionMet: true,
			"checked":            false,
		},
	}
}

func TestEvaluateLiterals(t *testing.T) {
	as := testify.New(t)
	ctx := testContext()

	as.True(eval.Evaluate("true", ctx))
	as.True(eval.Evaluate("TRUE", ctx))
	as.True(eval.Evaluate("1", ctx))
	as.False(eval.Evaluate("false", ctx))
	as.False(eval.Evaluate("False", ctx))
	as.False(eval.Evaluate("0", ctx))
	as.False(eval.Evaluate("", ctx))
}

func TestEvaluateComparisons(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		expected bool
	}{
		{"equal_match", "context.amount == 100", true},
		{"equal_mismatch", "context.amount == 200", false},
		{"not_equal_match", "context.amount != 200", true},
		{"not_equal_mismatch", "context.amount != 100", false},
		{"double_quoted_right", `context.currency == "EUR"`, true},
		{"single_quoted_right", "context.currency == 'EUR'", true},
		{"bool_data_as_string", "context.priority == true", true},
		{"numeric_data_as_string", "context.count == 3", true},
		{"flag_true", "context.condition_met == true", true},
		{"flag_false", "context.checked == false", true},
		{"flag_shadow_wins", "context.checked != true", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testify.Equal(
				t, tt.expected, eval.Evaluate(tt.expr, testContext()),
			)
		})
	}
}

func TestEvaluateFailClosed(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"missing_key", "context.nonexistent == 100"},
		{"no_context_prefix", "amount == 100"},
		{"bare_prefix", "context. == 100"},
		{"unsupported_operator", "context.amount > 50"},
		{"too_few_tokens", "context.amount =="},
		{"single_token", "context.amount"},
		{"garbage", "if amount then go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testify.False(t, eval.Evaluate(tt.expr, testContext()))
		})
	}
}

func TestEvaluateNilContext(t *testing.T) {
	as := testify.New(t)

	as.True(eval.Evaluate("true", nil))
	as.False(eval.Evaluate("context.amount == 100", nil))
	as.False(eval.Evaluate(
		"context.amount == 100", &api.RunContext{},
	))
}

func TestEvaluateRightSpaces(t *testing.T) {
	// The right operand is everything after the second space, so quoted
	// values containing spaces compare intact
	ctx := testContext()
	ctx.Event.Data["note"] = "hello world"
	testify.True(t, eval.Evaluate(`context.note == "hello world"`, ctx))
}

func TestFlagShadowsEventData(t *testing.T) {
	ctx := testContext()
	ctx.Event.Data["checked"] = "yes"

	// The flag value "false" wins over the event data value "yes"
	testify.False(t, eval.Evaluate("context.checked == yes", ctx))
	testify.True(t, eval.Evaluate("context.checked == false", ctx))
}
