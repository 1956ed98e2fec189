// Package eval implements the condition mini-grammar used by edge
// conditions and condition nodes. The grammar is deliberately fail-closed:
// any parse or lookup failure yields false, so a malformed condition can
// never cause an action to execute.
package eval

import (
	"fmt"
	"strings"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

const contextPrefix = "context."

// Evaluate applies a boolean condition expression against a run context.
//
// Grammar:
//   - case-insensitive "true" or "1" evaluates to true
//   - "", case-insensitive "false" or "0" evaluates to false
//   - otherwise the expression must split on the first two single spaces
//     into exactly "left op right"; left must start with "context." and
//     names a key resolved first against ctx.Flags, then against the
//     top-level event data (flags shadow event data); op is == or !=;
//     right is compared as a string after stripping one leading and
//     trailing quote character
//
// Anything else evaluates to false. No error is ever returned.
func Evaluate(expr string, ctx *api.RunContext) bool {
	switch strings.ToLower(expr) {
	case "true", "1":
		return true
	case "", "false", "0":
		return false
	}

	parts := strings.SplitN(expr, " ", 3)
	if len(parts) != 3 {
		return false
	}
	left, op, right := parts[0], parts[1], parts[2]

	key, ok := strings.CutPrefix(left, contextPrefix)
	if !ok || key == "" {
		return false
	}

	value, ok := lookup(ctx, key)
	if !ok {
		return false
	}

	right = stripQuotes(right)
	switch op {
	case "==":
		return value == right
	case "!=":
		return value != right
	default:
		return false
	}
}

// lookup resolves a key against the canonical merged view: run flags
// first, then top-level event data. Flag values render as "true"/"false"
func lookup(ctx *api.RunContext, key string) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Flags[key]; ok {
		if v {
			return "true", true
		}
		return "false", true
	}
	if ctx.Event == nil || ctx.Event.Data == nil {
		return "", false
	}
	v, ok := ctx.Event.Data[key]
	if !ok {
		return "", false
	}
	switch v := v.(type) {
	case string:
		return v, true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

// stripQuotes removes at most one leading and one trailing quote
// character, either single or double
func stripQuotes(s string) string {
	if len(s) > 0 && (s[0] == '\'' || s[0] == '"') {
		s = s[1:]
	}
	if len(s) > 0 {
		last := s[len(s)-1]
		if last == '\'' || last == '"' {
			s = s[:len(s)-1]
		}
	}
	return s
}
