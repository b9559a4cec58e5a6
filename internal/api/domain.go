package api

import (
	"github.com/tuya-yu/HeartDrawing/internal/assessments"
	"github.com/tuya-yu/HeartDrawing/internal/infrastructure"
	"github.com/tuya-yu/HeartDrawing/internal/prompts"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Prompts     prompts.System
	Assessments assessments.System
}

// NewDomain creates all domain systems from the API runtime. Workflow runs
// resolve templates through the prompt system, so stored overrides apply
// without a restart.
func NewDomain(runtime *Runtime) *Domain {
	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Workflow.PromptsDir,
		runtime.Logger,
		runtime.Pagination,
	)

	wf := infrastructure.NewWorkflowRuntime(
		runtime.Workflow,
		promptsSystem,
		runtime.Cache,
		runtime.Logger,
	)

	assessmentsSystem := assessments.New(
		runtime.Database.Connection(),
		runtime.Storage,
		wf,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Prompts:     promptsSystem,
		Assessments: assessmentsSystem,
	}
}
