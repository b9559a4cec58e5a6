package api

import "github.com/tuya-yu/HeartDrawing/pkg/module"

func routes(domain *Domain, runtime *Runtime) []module.Group {
	assessments := domain.Assessments.Handler(runtime.MaxUploadSize)

	return []module.Group{
		assessments.PredictRoutes(),
		assessments.Routes(),
		domain.Prompts.Handler().Routes(),
	}
}
