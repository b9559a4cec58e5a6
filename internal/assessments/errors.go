package assessments

import (
	"errors"
	"net/http"

	"github.com/tuya-yu/HeartDrawing/internal/workflow"
)

// Domain errors for assessment operations.
var (
	ErrNotFound     = errors.New("assessment not found")
	ErrDuplicate    = errors.New("assessment already exists")
	ErrNoImage      = errors.New("assessment has no archived drawing")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrInvalidFile  = errors.New("invalid file")
)

// MapHTTPStatus maps assessment and workflow errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoImage):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidFile):
		return http.StatusBadRequest
	}
	return workflow.MapHTTPStatus(err)
}
