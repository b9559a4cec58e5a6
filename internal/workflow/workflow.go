package workflow

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tuya-yu/HeartDrawing/internal/prompts"
	"github.com/tuya-yu/HeartDrawing/pkg/llm"
)

// Execute runs the screening workflow for one drawing. image is a file path
// or base64 payload; language is "zh" or "en". Both are validated before any
// model is called. Any stage failure fails the run with no partial result.
func Execute(ctx context.Context, rt *Runtime, image, language string) (*WorkflowResult, error) {
	return execute(ctx, rt, language, func() (llm.Image, error) {
		return ResolveImage(image)
	})
}

// ExecuteImage runs the screening workflow for an already decoded drawing.
func ExecuteImage(ctx context.Context, rt *Runtime, img llm.Image, language string) (*WorkflowResult, error) {
	return execute(ctx, rt, language, func() (llm.Image, error) {
		if len(img.Data) == 0 {
			return llm.Image{}, fmt.Errorf("%w: empty image", ErrInvalidImageInput)
		}
		return img, nil
	})
}

func execute(ctx context.Context, rt *Runtime, language string, resolve func() (llm.Image, error)) (*WorkflowResult, error) {
	if err := rt.validate(); err != nil {
		return nil, err
	}

	lang, err := prompts.ParseLanguage(language)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLanguage, language)
	}

	r := newRun(rt, lang)
	r.usage.Reset()

	r.image, err = resolve()
	if err != nil {
		r.transition(ctx, StateFailed)
		return nil, err
	}

	result, err := r.execute(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "workflow failed", "state", r.state, "error", err)
		r.transition(ctx, StateFailed)
		return nil, err
	}

	r.transition(ctx, StateFinalized)
	r.logger.InfoContext(ctx, "workflow complete",
		"classification", result.Classification,
		"total_tokens", result.Usage.TotalTokens,
	)
	return result, nil
}

func (r *run) execute(ctx context.Context) (*WorkflowResult, error) {
	r.transition(ctx, StateParallelExtraction)
	units, err := r.extractAll(ctx)
	if err != nil {
		return nil, err
	}

	r.transition(ctx, StateSynthesizing)
	merged, err := r.merge(ctx, units)
	if err != nil {
		return nil, err
	}

	final, err := r.final(ctx, merged)
	if err != nil {
		return nil, err
	}

	signal, err := r.signal(ctx, final)
	if err != nil {
		return nil, err
	}

	r.transition(ctx, StateClassifying)
	classification, err := r.classify(ctx, signal)
	if err != nil {
		return nil, err
	}

	return &WorkflowResult{
		Overall:        units[prompts.StageOverall],
		House:          units[prompts.StageHouse],
		Tree:           units[prompts.StageTree],
		Person:         units[prompts.StagePerson],
		Merge:          merged,
		Final:          final,
		Signal:         signal,
		Usage:          r.usage.Snapshot(),
		Classification: classification,
		FixSignal:      FixSignal(classification, r.lang),
	}, nil
}

// extractAll analyzes every drawing object concurrently. The first failure
// cancels the others; all goroutines are joined before returning.
func (r *run) extractAll(ctx context.Context) (map[prompts.Stage]AnalysisUnit, error) {
	stages := prompts.ObjectStages()
	results := make([]AnalysisUnit, len(stages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(stages))

	for i, stage := range stages {
		g.Go(func() error {
			if gctx.Err() != nil {
				return stageError(stage, gctx.Err())
			}

			unit, err := r.extract(gctx, stage)
			if err != nil {
				return err
			}
			results[i] = unit
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	units := make(map[prompts.Stage]AnalysisUnit, len(stages))
	for i, stage := range stages {
		units[stage] = results[i]
	}
	return units, nil
}
