package infrastructure

import (
	"log/slog"

	"github.com/tuya-yu/HeartDrawing/internal/config"
	"github.com/tuya-yu/HeartDrawing/internal/workflow"
	"github.com/tuya-yu/HeartDrawing/pkg/cache"
	"github.com/tuya-yu/HeartDrawing/pkg/llm"
)

// NewWorkflowRuntime builds the model clients described by cfg, wrapping
// them with the response cache when one is configured. A separate
// multimodal client is created only when vision_model differs from model.
func NewWorkflowRuntime(
	cfg *config.WorkflowConfig,
	prompts workflow.PromptStore,
	responses cache.Store,
	logger *slog.Logger,
) *workflow.Runtime {
	logger = logger.With("workflow", "htp")

	model := func(name string) llm.Model {
		var m llm.Model = llm.New(&cfg.LLM, name, logger)
		if responses != nil {
			m = llm.WithCache(m, responses, logger)
		}
		return m
	}

	rt := &workflow.Runtime{
		Text:    model(cfg.LLM.Model),
		Prompts: prompts,
		Logger:  logger,
	}
	if cfg.LLM.VisionModel != "" && cfg.LLM.VisionModel != cfg.LLM.Model {
		rt.Multimodal = model(cfg.LLM.VisionModel)
	}
	return rt
}
