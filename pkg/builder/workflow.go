package builder

import (
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/api"
)

// Steps is a builder for ordered step-list workflows
type Steps struct {
	steps []api.Step
}

// NewSteps creates an empty step-list builder
func NewSteps() *Steps {
	return &Steps{}
}

// WithValidate appends a validation step
func (s *Steps) WithValidate(name string) *Steps {
	return s.withStep(api.Step{Name: name, Kind: api.StepValidate})
}

// WithArchive appends an archive step
func (s *Steps) WithArchive(name string) *Steps {
	return s.withStep(api.Step{Name: name, Kind: api.StepArchive})
}

// WithNotify appends a notify step targeting the given endpoint
func (s *Steps) WithNotify(name, endpoint string) *Steps {
	return s.withStep(api.Step{
		Name: name,
		Kind: api.StepNotify,
		Data: api.Data{api.NodeDataEndpoint: endpoint},
	})
}

// Build assembles and validates the workflow
func (s *Steps) Build() (*api.Workflow, error) {
	res := api.StepListWorkflow(s.steps...)
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

// MustBuild assembles the workflow, panicking on validation failure
func (s *Steps) MustBuild() *api.Workflow {
	res, err := s.Build()
	if err != nil {
		panic(err)
	}
	return res
}

func (s *Steps) withStep(st api.Step) *Steps {
	res := *s
	res.steps = append(append([]api.Step(nil), s.steps...), st)
	return &res
}
