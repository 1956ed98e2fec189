package builder

import (
	"strings"

	"github.com/google/uuid"

	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

const idSuffixLen = 6

// NewFlowID generates a unique flow ID with a readable prefix
func NewFlowID(prefix string) api.FlowID {
	prefix = strings.ToLower(prefix)
	prefix = strings.ReplaceAll(prefix, " ", "-")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:idSuffixLen]
	return api.FlowID(prefix + "-" + suffix)
}
