package workflow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tuya-yu/HeartDrawing/internal/prompts"
	"github.com/tuya-yu/HeartDrawing/pkg/llm"
)

// PromptStore supplies the template for a (language, stage, kind) key.
// Implementations return prompts.ErrNotFound for unknown keys.
type PromptStore interface {
	Template(ctx context.Context, lang prompts.Language, stage prompts.Stage, kind prompts.Kind) (string, error)
}

// Runtime bundles the collaborators a run depends on. It is constructed by
// higher-level composition code and shared across runs; all per-run state
// lives elsewhere.
type Runtime struct {
	// Text serves the analysis and synthesis calls.
	Text llm.Model
	// Multimodal serves feature extraction and classification. Text is
	// used when nil.
	Multimodal llm.Model
	Prompts    PromptStore
	Logger     *slog.Logger
	Observer   Observer
}

func (rt *Runtime) validate() error {
	if rt == nil || rt.Text == nil {
		return errors.New("runtime: text model required")
	}
	if rt.Prompts == nil {
		return errors.New("runtime: prompt store required")
	}
	return nil
}

func (rt *Runtime) multimodal() llm.Model {
	if rt.Multimodal != nil {
		return rt.Multimodal
	}
	return rt.Text
}

func (rt *Runtime) logger() *slog.Logger {
	if rt.Logger != nil {
		return rt.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (rt *Runtime) observer() Observer {
	if rt.Observer != nil {
		return rt.Observer
	}
	return noopObserver{}
}
