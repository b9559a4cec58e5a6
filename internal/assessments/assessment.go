// Package assessments stores the outcome of screening runs. Each assessment
// keeps the complete workflow result, the text delivered to the user, token
// totals, and a reference to the archived drawing.
package assessments

import (
	"time"

	"github.com/google/uuid"

	"github.com/tuya-yu/HeartDrawing/internal/workflow"
)

// DefaultLanguage applies when a request names no language.
const DefaultLanguage = "zh"

// Assessment mirrors the assessments table.
type Assessment struct {
	ID               uuid.UUID                `json:"id"`
	Language         string                   `json:"language"`
	Classification   bool                     `json:"classification"`
	FixSignal        *string                  `json:"fix_signal"`
	Report           string                   `json:"report"`
	Result           *workflow.WorkflowResult `json:"result"`
	TotalTokens      int                      `json:"total_tokens"`
	PromptTokens     int                      `json:"prompt_tokens"`
	CompletionTokens int                      `json:"completion_tokens"`
	ImageKey         *string                  `json:"image_key"`
	CreatedAt        time.Time                `json:"created_at"`
}

// PredictCommand requests a screening run. Image is a base64 payload,
// optionally carrying a data URI header. File paths are rejected.
type PredictCommand struct {
	Image    string `json:"image_path"`
	Language string `json:"language"`
}
