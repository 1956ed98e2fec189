// Package assert wraps testify with orchestration-specific assertion
// helpers shared across the test suites.
package assert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/config"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

// Wrapper wraps testify assertions with orchestration-specific helpers
type Wrapper struct {
	*testing.T
	*assert.Assertions
}

// DefaultRetryInterval is the default polling interval for Eventually checks
const DefaultRetryInterval = 100 * time.Millisecond

// New creates a new test assertion wrapper
func New(t *testing.T) *Wrapper {
	return &Wrapper{
		T:          t,
		Assertions: assert.New(t),
	}
}

// FlowValid asserts that a flow passes validation and carries the
// structural minimum every saved flow must have
func (w *Wrapper) FlowValid(f *api.Flow) {
	w.Helper()
	w.NoError(f.Validate())
	w.NotEmpty(f.ID)
	w.NotEmpty(f.Nodes)
}

// FlowInvalid asserts that a flow fails validation and returns the error
func (w *Wrapper) FlowInvalid(f *api.Flow, contains string) error {
	w.Helper()
	err := f.Validate()
	w.Error(err)
	if err != nil && contains != "" {
		w.Contains(err.Error(), contains)
	}
	return err
}

// RunStatus asserts the status of a run
func (w *Wrapper) RunStatus(rc *api.RunContext, expected api.RunStatus) {
	w.Helper()
	w.Equal(expected, rc.Status)
}

// RunVisited asserts that the run history holds exactly the given nodes
// in the given order
func (w *Wrapper) RunVisited(rc *api.RunContext, ids ...api.NodeID) {
	w.Helper()
	visited := make([]api.NodeID, len(rc.History))
	for i, h := range rc.History {
		visited[i] = h.NodeID
	}
	w.Equal(ids, visited)
}

// RunFlag asserts the value of a run context flag
func (w *Wrapper) RunFlag(rc *api.RunContext, key string, expected bool) {
	w.Helper()
	w.Equal(expected, rc.Flags[key], "flag %s", key)
}

// ConfigValid asserts that a configuration is valid
func (w *Wrapper) ConfigValid(cfg *config.Config) {
	w.Helper()
	w.NoError(cfg.Validate())
	w.True(cfg.APIPort > 0 && cfg.APIPort <= config.MaxTCPPort)
	w.True(cfg.IngestTimeout > 0)
}

// ConfigInvalid asserts that a configuration is invalid
func (w *Wrapper) ConfigInvalid(cfg *config.Config, contains string) {
	w.Helper()
	err := cfg.Validate()
	w.Error(err)
	if contains != "" {
		w.Contains(err.Error(), contains)
	}
}

// Eventually runs a condition repeatedly until it passes or times out
func (w *Wrapper) Eventually(
	condition func() bool, timeout time.Duration, msg string, args ...any,
) {
	w.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(DefaultRetryInterval)
	}
	w.Fail(msg, args...)
}
