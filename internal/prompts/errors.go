package prompts

import (
	"errors"
	"net/http"
)

// Domain errors for prompt operations.
var (
	ErrNotFound        = errors.New("prompt not found")
	ErrDuplicate       = errors.New("prompt name already exists")
	ErrInvalidLanguage = errors.New("language must be zh or en")
	ErrInvalidStage    = errors.New("unknown prompt stage")
	ErrInvalidKind     = errors.New("prompt kind not valid for stage")
)

// MapHTTPStatus maps prompt domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidLanguage), errors.Is(err, ErrInvalidStage), errors.Is(err, ErrInvalidKind):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
