package prompts

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tuya-yu/HeartDrawing/pkg/pagination"
	"github.com/tuya-yu/HeartDrawing/pkg/query"
	"github.com/tuya-yu/HeartDrawing/pkg/repository"
)

type repo struct {
	*Store
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the PostgreSQL-backed prompt system. Effective templates
// resolve through the stored overrides, then dir, then the embedded defaults.
func New(db *sql.DB, dir string, logger *slog.Logger, pagination pagination.Config) System {
	r := &repo{
		db:         db,
		logger:     logger.With("system", "prompts"),
		pagination: pagination,
	}
	r.Store = NewStore(dir, r, logger)
	return r
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Prompt], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort).Search(page.Search, "Name", "Description")
	filters.Apply(qb)
	if len(page.Sort) > 0 {
		qb.OrderBy(page.Sort)
	}

	countSQL, countArgs := qb.Count()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count prompts: %w", err)
	}

	pageSQL, pageArgs := qb.Page(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPrompt)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	q, args := query.NewBuilder(projection).Single("ID", id)
	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Active(ctx context.Context, lang Language, stage Stage, kind Kind) (*Prompt, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM %s WHERE p.language = $1 AND p.stage = $2 AND p.kind = $3 AND p.active = true",
		projection.Select(), projection.From(),
	)
	p, err := repository.QueryOne(ctx, r.db, q, []any{lang, stage, kind}, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Prompt, error) {
	if err := Validate(cmd.Language, cmd.Stage, cmd.Kind); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO prompts(name, language, stage, kind, template, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		` + returning

	args := []any{cmd.Name, cmd.Language, cmd.Stage, cmd.Kind, cmd.Template, cmd.Description}
	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prompt created", "id", p.ID, "name", p.Name, "language", p.Language, "stage", p.Stage, "kind", p.Kind)
	return &p, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Prompt, error) {
	if err := Validate(cmd.Language, cmd.Stage, cmd.Kind); err != nil {
		return nil, err
	}

	q := `
		UPDATE prompts
		SET name = $1, language = $2, stage = $3, kind = $4, template = $5, description = $6,
			active = active AND language = $2 AND stage = $3 AND kind = $4
		WHERE id = $7
		` + returning

	args := []any{cmd.Name, cmd.Language, cmd.Stage, cmd.Kind, cmd.Template, cmd.Description, id}
	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prompt updated", "id", p.ID, "name", p.Name)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM prompts WHERE id = $1", id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	r.logger.Info("prompt deleted", "id", id)
	return nil
}

func (r *repo) Activate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		findQ, findArgs := query.NewBuilder(projection).Single("ID", id)
		target, err := repository.QueryOne(ctx, tx, findQ, findArgs, scanPrompt)
		if err != nil {
			return Prompt{}, err
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE prompts SET active = false WHERE language = $1 AND stage = $2 AND kind = $3 AND active = true",
			target.Language, target.Stage, target.Kind,
		)
		if err != nil {
			return Prompt{}, fmt.Errorf("deactivate current: %w", err)
		}

		return repository.QueryOne(ctx, tx,
			"UPDATE prompts SET active = true WHERE id = $1 "+returning,
			[]any{id}, scanPrompt,
		)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prompt activated", "id", p.ID, "language", p.Language, "stage", p.Stage, "kind", p.Kind)
	return &p, nil
}

func (r *repo) Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	p, err := repository.QueryOne(ctx, r.db,
		"UPDATE prompts SET active = false WHERE id = $1 "+returning,
		[]any{id}, scanPrompt,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("prompt deactivated", "id", p.ID, "name", p.Name)
	return &p, nil
}
