package api

import (
	"github.com/tuya-yu/HeartDrawing/internal/assessments"
	"github.com/tuya-yu/HeartDrawing/internal/config"
	"github.com/tuya-yu/HeartDrawing/internal/prompts"
	"github.com/tuya-yu/HeartDrawing/pkg/module"
	"github.com/tuya-yu/HeartDrawing/pkg/openapi"
)

// openapiRoutes describes groups and returns the group serving the
// resulting document at /openapi.json.
func openapiRoutes(cfg *config.Config, groups []module.Group) (module.Group, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	spec.Components.AddSchemas(assessments.Schemas)
	spec.Components.AddSchemas(prompts.Schemas)

	if err := module.Describe(spec, groups...); err != nil {
		return module.Group{}, err
	}

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return module.Group{}, err
	}

	return module.Group{
		Routes: []module.Route{
			{Method: "GET", Pattern: "/openapi.json", Handler: openapi.ServeSpec(data)},
		},
	}, nil
}
