// Package api assembles the versioned API module from the domain systems.
package api

import (
	"fmt"

	"github.com/tuya-yu/HeartDrawing/internal/config"
	"github.com/tuya-yu/HeartDrawing/internal/infrastructure"
	"github.com/tuya-yu/HeartDrawing/pkg/middleware"
	"github.com/tuya-yu/HeartDrawing/pkg/module"
)

// NewModule creates the API module with all domain handlers, the OpenAPI
// document describing them, and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	groups := routes(domain, runtime)
	docs, err := openapiRoutes(cfg, groups)
	if err != nil {
		return nil, fmt.Errorf("openapi: %w", err)
	}

	m := module.New(cfg.API.BasePath, append(groups, docs)...)
	m.Use(middleware.RequestID())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
