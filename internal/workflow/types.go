package workflow

import (
	"strings"

	"github.com/tuya-yu/HeartDrawing/pkg/formatting"
	"github.com/tuya-yu/HeartDrawing/pkg/llm"
)

// AnalysisUnit is the output of one object stage.
type AnalysisUnit struct {
	Feature  string `json:"feature"`
	Analysis string `json:"analysis"`
}

// WorkflowResult is the complete output of a successful run.
type WorkflowResult struct {
	Overall        AnalysisUnit `json:"overall"`
	House          AnalysisUnit `json:"house"`
	Tree           AnalysisUnit `json:"tree"`
	Person         AnalysisUnit `json:"person"`
	Merge          string       `json:"merge"`
	Final          string       `json:"final"`
	Signal         string       `json:"signal"`
	Usage          llm.Usage    `json:"usage"`
	Classification bool         `json:"classification"`
	FixSignal      *string      `json:"fix_signal"`
}

// Deliverable returns the text meant for the person who drew the picture.
// A fix signal replaces the report entirely; otherwise the signal judgment
// is followed by the final report with its <output> tags removed.
func (r *WorkflowResult) Deliverable() string {
	if r.FixSignal != nil {
		return *r.FixSignal
	}
	return strings.TrimSpace(r.Signal) + "\n\n" + formatting.StripTags(r.Final, "output")
}
