package prompts

import "github.com/tuya-yu/HeartDrawing/pkg/openapi"

func enumOf[T ~string](values ...T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

var (
	languageEnum = enumOf(languages...)
	stageEnum    = enumOf(stageOrder...)
	kindEnum     = enumOf(KindFeature, KindAnalysis, KindInstructions, KindFormat)
)

// Schemas are the component schemas referenced by the prompt routes.
var Schemas = map[string]*openapi.Schema{
	"Prompt": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":          {Type: "string", Format: "uuid"},
			"name":        {Type: "string"},
			"language":    {Type: "string", Enum: languageEnum},
			"stage":       {Type: "string", Enum: stageEnum},
			"kind":        {Type: "string", Enum: kindEnum},
			"template":    {Type: "string"},
			"description": {Type: "string"},
			"active":      {Type: "boolean"},
		},
	},
	"PromptCommand": {
		Type:     "object",
		Required: []string{"name", "language", "stage", "kind", "template"},
		Properties: map[string]*openapi.Schema{
			"name":        {Type: "string"},
			"language":    {Type: "string", Enum: languageEnum},
			"stage":       {Type: "string", Enum: stageEnum},
			"kind":        {Type: "string", Enum: kindEnum},
			"template":    {Type: "string"},
			"description": {Type: "string"},
		},
	},
	"PromptPage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        {Type: "array", Items: openapi.SchemaRef("Prompt")},
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
		},
	},
	"StageInfo": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"stage": {Type: "string", Enum: stageEnum},
			"kinds": {Type: "array", Items: &openapi.Schema{Type: "string", Enum: kindEnum}},
		},
	},
	"Template": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"language": {Type: "string", Enum: languageEnum},
			"stage":    {Type: "string", Enum: stageEnum},
			"kind":     {Type: "string", Enum: kindEnum},
			"source":   {Type: "string", Enum: []any{SourceDefault, SourceDirectory, SourceOverride}},
			"content":  {Type: "string"},
		},
	},
}

var idParam = openapi.PathParam("id", "Prompt ID")

var promptResponses = map[int]*openapi.Response{
	200: openapi.ResponseJSON("Prompt", "Prompt"),
	400: openapi.ResponseRef("BadRequest"),
	404: openapi.ResponseRef("NotFound"),
	409: openapi.ResponseRef("Conflict"),
}

var spec = struct {
	List       *openapi.Operation
	Stages     *openapi.Operation
	Find       *openapi.Operation
	Effective  *openapi.Operation
	Create     *openapi.Operation
	Search     *openapi.Operation
	Update     *openapi.Operation
	Delete     *openapi.Operation
	Activate   *openapi.Operation
	Deactivate *openapi.Operation
}{
	List: &openapi.Operation{
		OperationID: "listPrompts",
		Summary:     "List template overrides",
		Tags:        []string{"Prompts"},
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Match name or description", false),
			openapi.QueryParam("language", "string", "Filter by language", false),
			openapi.QueryParam("stage", "string", "Filter by stage", false),
			openapi.QueryParam("kind", "string", "Filter by kind", false),
			openapi.QueryParam("active", "boolean", "Filter by active flag", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Prompt page", "PromptPage"),
		},
	},
	Stages: &openapi.Operation{
		OperationID: "listStages",
		Summary:     "List workflow stages and their template kinds",
		Tags:        []string{"Prompts"},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Stages in execution order",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("StageInfo")}},
				},
			},
		},
	},
	Find: &openapi.Operation{
		OperationID: "findPrompt",
		Summary:     "Get a template override",
		Tags:        []string{"Prompts"},
		Parameters:  []*openapi.Parameter{idParam},
		Responses:   promptResponses,
	},
	Effective: &openapi.Operation{
		OperationID: "effectiveTemplate",
		Summary:     "Get the template a run would use",
		Tags:        []string{"Prompts"},
		Parameters: []*openapi.Parameter{
			openapi.EnumPathParam("language", "Template language", "zh", "en"),
			openapi.EnumPathParam("stage", "Workflow stage", "overall", "house", "tree", "person", "merge", "final", "signal", "classify"),
			openapi.EnumPathParam("kind", "Template kind", "feature", "analysis", "instructions", "format"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Effective template", "Template"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Create: &openapi.Operation{
		OperationID: "createPrompt",
		Summary:     "Create a template override",
		Tags:        []string{"Prompts"},
		RequestBody: openapi.RequestBodyJSON("PromptCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created prompt", "Prompt"),
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Search: &openapi.Operation{
		OperationID: "searchPrompts",
		Summary:     "Search template overrides",
		Tags:        []string{"Prompts"},
		RequestBody: openapi.RequestBodyJSON("PageRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Prompt page", "PromptPage"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Update: &openapi.Operation{
		OperationID: "updatePrompt",
		Summary:     "Replace a template override",
		Tags:        []string{"Prompts"},
		Parameters:  []*openapi.Parameter{idParam},
		RequestBody: openapi.RequestBodyJSON("PromptCommand", true),
		Responses:   promptResponses,
	},
	Delete: &openapi.Operation{
		OperationID: "deletePrompt",
		Summary:     "Delete a template override",
		Tags:        []string{"Prompts"},
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			204: {Description: "Deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Activate: &openapi.Operation{
		OperationID: "activatePrompt",
		Summary:     "Make the override the active template for its key",
		Description: "Any other active override for the same language, stage and kind is deactivated.",
		Tags:        []string{"Prompts"},
		Parameters:  []*openapi.Parameter{idParam},
		Responses:   promptResponses,
	},
	Deactivate: &openapi.Operation{
		OperationID: "deactivatePrompt",
		Summary:     "Stop using the override",
		Tags:        []string{"Prompts"},
		Parameters:  []*openapi.Parameter{idParam},
		Responses:   promptResponses,
	},
}
