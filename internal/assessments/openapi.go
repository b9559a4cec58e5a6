package assessments

import "github.com/tuya-yu/HeartDrawing/pkg/openapi"

// Schemas are the component schemas referenced by the assessment routes.
var Schemas = map[string]*openapi.Schema{
	"PredictCommand": {
		Type:     "object",
		Required: []string{"image_path"},
		Properties: map[string]*openapi.Schema{
			"image_path": {Type: "string", Description: "Base64 image payload, optionally a data URI"},
			"language":   {Type: "string", Enum: []any{"zh", "en"}, Default: DefaultLanguage},
		},
	},
	"AnalysisUnit": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"feature":  {Type: "string"},
			"analysis": {Type: "string"},
		},
	},
	"Usage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"total_tokens":      {Type: "integer"},
			"prompt_tokens":     {Type: "integer"},
			"completion_tokens": {Type: "integer"},
		},
	},
	"WorkflowResult": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"overall":        openapi.SchemaRef("AnalysisUnit"),
			"house":          openapi.SchemaRef("AnalysisUnit"),
			"tree":           openapi.SchemaRef("AnalysisUnit"),
			"person":         openapi.SchemaRef("AnalysisUnit"),
			"merge":          {Type: "string"},
			"final":          {Type: "string"},
			"signal":         {Type: "string"},
			"usage":          openapi.SchemaRef("Usage"),
			"classification": {Type: "boolean", Description: "False when the image was judged not to be an HTP drawing"},
			"fix_signal":     {Type: "string", Description: "Fixed message returned in place of the report when classification is false"},
		},
	},
	"Assessment": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":                {Type: "string", Format: "uuid"},
			"language":          {Type: "string", Enum: []any{"zh", "en"}},
			"classification":    {Type: "boolean"},
			"fix_signal":        {Type: "string"},
			"report":            {Type: "string", Description: "Text delivered to the user"},
			"result":            openapi.SchemaRef("WorkflowResult"),
			"total_tokens":      {Type: "integer"},
			"prompt_tokens":     {Type: "integer"},
			"completion_tokens": {Type: "integer"},
			"image_key":         {Type: "string"},
			"created_at":        {Type: "string", Format: "date-time"},
		},
	},
	"AssessmentPage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        {Type: "array", Items: openapi.SchemaRef("Assessment")},
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
		},
	},
	"Methods": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"method": {Type: "array", Items: &openapi.Schema{Type: "string"}},
		},
	},
}

var idParam = openapi.PathParam("id", "Assessment ID")

var spec = struct {
	Predict *openapi.Operation
	Methods *openapi.Operation
	List    *openapi.Operation
	Search  *openapi.Operation
	Find    *openapi.Operation
	Image   *openapi.Operation
	Upload  *openapi.Operation
	Delete  *openapi.Operation
}{
	Predict: &openapi.Operation{
		OperationID: "predict",
		Summary:     "Run a screening",
		Description: "Runs the full workflow and stores the assessment. The stored record is linked in the Location header.",
		Tags:        []string{"Predict"},
		RequestBody: openapi.RequestBodyJSON("PredictCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Workflow result", "WorkflowResult"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("PayloadTooLarge"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
	Methods: &openapi.Operation{
		OperationID: "methods",
		Summary:     "List inference methods",
		Tags:        []string{"Predict"},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Supported methods", "Methods"),
		},
	},
	List: &openapi.Operation{
		OperationID: "listAssessments",
		Summary:     "List assessments",
		Tags:        []string{"Assessments"},
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("sort", "string", "Sort fields", false),
			openapi.QueryParam("language", "string", "Filter by report language", false),
			openapi.QueryParam("classification", "boolean", "Filter by drawing verdict", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Assessment page", "AssessmentPage"),
		},
	},
	Search: &openapi.Operation{
		OperationID: "searchAssessments",
		Summary:     "Search assessments",
		Tags:        []string{"Assessments"},
		RequestBody: openapi.RequestBodyJSON("PageRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Assessment page", "AssessmentPage"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Find: &openapi.Operation{
		OperationID: "findAssessment",
		Summary:     "Get an assessment",
		Tags:        []string{"Assessments"},
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Assessment", "Assessment"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Image: &openapi.Operation{
		OperationID: "assessmentImage",
		Summary:     "Download the archived drawing",
		Tags:        []string{"Assessments"},
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseBinary("Drawing bytes", "image/*"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Upload: &openapi.Operation{
		OperationID: "uploadAssessment",
		Summary:     "Upload a drawing and run a screening",
		Tags:        []string{"Assessments"},
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"multipart/form-data": {
					Schema: &openapi.Schema{
						Type:     "object",
						Required: []string{"image"},
						Properties: map[string]*openapi.Schema{
							"image":    {Type: "string", Format: "binary"},
							"language": {Type: "string", Enum: []any{"zh", "en"}},
						},
					},
				},
			},
		},
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Stored assessment", "Assessment"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("PayloadTooLarge"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
	Delete: &openapi.Operation{
		OperationID: "deleteAssessment",
		Summary:     "Delete an assessment and its drawing",
		Tags:        []string{"Assessments"},
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			204: {Description: "Deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
}
