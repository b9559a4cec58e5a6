package prompts

import (
	"context"

	"github.com/google/uuid"

	"github.com/tuya-yu/HeartDrawing/pkg/pagination"
)

// System manages stored overrides and resolves effective templates.
type System interface {
	Overrides

	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Prompt], error)
	Find(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Create(ctx context.Context, cmd CreateCommand) (*Prompt, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Prompt, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Activate makes the prompt the only active override for its key.
	Activate(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error)

	Resolve(ctx context.Context, lang Language, stage Stage, kind Kind) (*Template, error)
	Template(ctx context.Context, lang Language, stage Stage, kind Kind) (string, error)
}
