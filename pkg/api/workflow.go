package api

import (
	"errors"
	"fmt"
)

type (
	StepKind string

	// Step is one entry in an ordered step-list workflow
	Step struct {
		Data Data     `json:"data,omitempty"`
		Name string   `json:"name"`
		Kind StepKind `json:"kind"`
	}

	// Workflow is the sum of the two workflow representations: a node
	// graph flow or an ordered step list. Exactly one variant is set;
	// both are consumed by the same runner entry point
	Workflow struct {
		Flow  *Flow  `json:"flow,omitempty"`
		Steps []Step `json:"steps,omitempty"`
	}
)

const (
	StepValidate StepKind = "validate"
	StepArchive  StepKind = "archive"
	StepNotify   StepKind = "notify"
)

var (
	ErrWorkflowEmpty     = errors.New("workflow has no flow or steps")
	ErrWorkflowAmbiguous = errors.New("workflow has both flow and steps")
	ErrInvalidStepKind   = errors.New("invalid step kind")
)

// GraphWorkflow wraps a flow as a runnable workflow
func GraphWorkflow(f *Flow) *Workflow {
	return &Workflow{Flow: f}
}

// StepListWorkflow wraps an ordered step list as a runnable workflow
func StepListWorkflow(steps ...Step) *Workflow {
	return &Workflow{Steps: steps}
}

// Validate checks that exactly one workflow variant is populated
func (w *Workflow) Validate() error {
	switch {
	case w.Flow == nil && len(w.Steps) == 0:
		return ErrWorkflowEmpty
	case w.Flow != nil && len(w.Steps) > 0:
		return ErrWorkflowAmbiguous
	case w.Flow != nil:
		return w.Flow.Validate()
	}
	for _, s := range w.Steps {
		switch s.Kind {
		case StepValidate, StepArchive, StepNotify:
		default:
			return fmt.Errorf("%w: %s", ErrInvalidStepKind, s.Kind)
		}
	}
	return nil
}
