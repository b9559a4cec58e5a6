package assessments

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tuya-yu/HeartDrawing/internal/workflow"
	"github.com/tuya-yu/HeartDrawing/pkg/pagination"
	"github.com/tuya-yu/HeartDrawing/pkg/query"
	"github.com/tuya-yu/HeartDrawing/pkg/repository"
	"github.com/tuya-yu/HeartDrawing/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	rt         *workflow.Runtime
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the PostgreSQL-backed assessment system.
func New(
	db *sql.DB,
	store storage.System,
	rt *workflow.Runtime,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		rt:         rt,
		logger:     logger.With("system", "assessments"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Assessment], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort).Search(page.Search, "Report")
	filters.Apply(qb)
	if len(page.Sort) > 0 {
		qb.OrderBy(page.Sort)
	}

	countSQL, countArgs := qb.Count()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count assessments: %w", err)
	}

	pageSQL, pageArgs := qb.Page(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAssessment)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	q, args := query.NewBuilder(projection).Single("ID", id)
	a, err := repository.QueryOne(ctx, r.db, q, args, scanAssessment)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Predict(ctx context.Context, cmd PredictCommand) (*Assessment, error) {
	if cmd.Language == "" {
		cmd.Language = DefaultLanguage
	}

	img, err := workflow.DecodeImage(cmd.Image)
	if err != nil {
		return nil, err
	}

	result, err := workflow.ExecuteImage(ctx, r.rt, img, cmd.Language)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}

	id := uuid.New()
	key := imageKey(id)

	if err := r.storage.Upload(ctx, key, bytes.NewReader(img.Data), img.MediaType); err != nil {
		return nil, fmt.Errorf("archive drawing: %w", err)
	}

	q := `
		INSERT INTO assessments(
			id, language, classification, fix_signal, report, result,
			total_tokens, prompt_tokens, completion_tokens, image_key
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		` + returning

	args := []any{
		id,
		cmd.Language,
		result.Classification,
		result.FixSignal,
		result.Deliverable(),
		encoded,
		result.Usage.TotalTokens,
		result.Usage.PromptTokens,
		result.Usage.CompletionTokens,
		key,
	}

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Assessment, error) {
		return repository.QueryOne(ctx, tx, q, args, scanAssessment)
	})
	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("assessment recorded",
		"id", a.ID,
		"language", a.Language,
		"classification", a.Classification,
		"total_tokens", a.TotalTokens,
	)
	return &a, nil
}

func (r *repo) Image(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	a, err := r.Find(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if a.ImageKey == nil {
		return nil, "", ErrNoImage
	}

	body, contentType, err := r.storage.Download(ctx, *a.ImageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: %w", ErrNoImage, err)
		}
		return nil, "", fmt.Errorf("download drawing: %w", err)
	}
	return body, contentType, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM assessments WHERE id = $1", id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if a.ImageKey != nil {
		if delErr := r.storage.Delete(ctx, *a.ImageKey); delErr != nil {
			r.logger.Warn("blob delete failed after DB delete", "key", *a.ImageKey, "error", delErr)
		}
	}

	r.logger.Info("assessment deleted", "id", id)
	return nil
}

func imageKey(id uuid.UUID) string {
	return fmt.Sprintf("assessments/%s/drawing", id)
}
