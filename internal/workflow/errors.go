// Package workflow runs the House-Tree-Person screening workflow for a
// single drawing: four parallel object analyses, a sequential synthesis
// chain, and a safety classification that can replace the report with a
// referral notice.
package workflow

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tuya-yu/HeartDrawing/internal/prompts"
	"github.com/tuya-yu/HeartDrawing/pkg/llm"
)

// Sentinel errors for workflow operations.
var (
	ErrInvalidImageInput = errors.New("image is neither a readable file nor base64 data")
	ErrInvalidLanguage   = prompts.ErrInvalidLanguage
	ErrStageFailed       = errors.New("stage execution failed")
)

// StageError tags a failure with the stage that produced it.
type StageError struct {
	Stage prompts.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

// Unwrap exposes both ErrStageFailed and the underlying cause.
func (e *StageError) Unwrap() []error {
	return []error{ErrStageFailed, e.Err}
}

func stageError(stage prompts.Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// MapHTTPStatus maps workflow errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidImageInput), errors.Is(err, ErrInvalidLanguage):
		return http.StatusBadRequest
	case errors.Is(err, ErrStageFailed), errors.Is(err, llm.ErrInvocation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
