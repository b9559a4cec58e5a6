package assessments

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/tuya-yu/HeartDrawing/pkg/pagination"
)

// System defines the public contract for assessment operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Assessment], error)
	Find(ctx context.Context, id uuid.UUID) (*Assessment, error)

	// Predict runs the workflow, archives the drawing and records the result.
	Predict(ctx context.Context, cmd PredictCommand) (*Assessment, error)

	// Image streams the archived drawing. The caller closes the reader.
	Image(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
