package cmd

import (
	"log/slog"

	"github.com/tuya-yu/HeartDrawing/internal/config"
	"github.com/tuya-yu/HeartDrawing/internal/infrastructure"
	"github.com/tuya-yu/HeartDrawing/internal/prompts"
	"github.com/tuya-yu/HeartDrawing/internal/workflow"
	"github.com/tuya-yu/HeartDrawing/pkg/cache"
)

// DefaultRuntime loads the workflow section of the config file and wires the
// model clients, response cache and file-backed prompt store. Template
// overrides live in the database and are not consulted from the CLI.
func DefaultRuntime(opts *Options, logger *slog.Logger) (*workflow.Runtime, func() error, error) {
	cfg, err := config.LoadWorkflow(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	if opts.NoCache {
		cfg.Cache.Driver = cache.DriverNone
	}

	responses, err := cache.Open(&cfg.Cache, logger)
	if err != nil {
		return nil, nil, err
	}

	release := func() error { return nil }
	if responses != nil {
		release = responses.Close
	}

	store := prompts.NewStore(cfg.PromptsDir, nil, logger)
	return infrastructure.NewWorkflowRuntime(cfg, store, responses, logger), release, nil
}
