package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tuya-yu/HeartDrawing/internal/api"
	"github.com/tuya-yu/HeartDrawing/internal/config"
	"github.com/tuya-yu/HeartDrawing/internal/infrastructure"
	"github.com/tuya-yu/HeartDrawing/pkg/middleware"
	"github.com/tuya-yu/HeartDrawing/pkg/module"
)

const testConfig = `
[database]
user = "htp"

[storage]
connection_string = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

[workflow.llm]
api_key = "sk-test"

[workflow.cache]
driver = "memory"
`

func newRouter(t *testing.T) *module.Router {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(testConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure: %v", err)
	}
	t.Cleanup(func() { infra.Database.Connection().Close() })

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule: %v", err)
	}

	router := module.NewRouter()
	router.Mount(m)
	return router
}

func TestModuleRoutes(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		method, path string
		want         int
		contains     string
	}{
		{http.MethodGet, "/v1/methods", http.StatusOK, `"predict"`},
		{http.MethodGet, "/v1/prompts/stages", http.StatusOK, `"classify"`},
		{http.MethodGet, "/v1/assessments/not-a-uuid", http.StatusBadRequest, `"error"`},
		{http.MethodPost, "/v1/predict", http.StatusBadRequest, `"error"`},
		{http.MethodGet, "/v2/methods", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader("")))

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body = %s, want containing %s", rec.Body.String(), tt.contains)
			}
		})
	}
}

func TestModuleSetsRequestID(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/methods", nil))

	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}

	var body map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body["method"]) != 1 || body["method"][0] != "predict" {
		t.Errorf("body = %v", body)
	}
}

func TestModuleServesOpenAPI(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var doc struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Version string `json:"version"`
		} `json:"info"`
		Servers []struct {
			URL string `json:"url"`
		} `json:"servers"`
		Paths      map[string]map[string]json.RawMessage `json:"paths"`
		Components struct {
			Schemas map[string]json.RawMessage `json:"schemas"`
		} `json:"components"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if doc.OpenAPI != "3.1.0" || doc.Info.Version != "0.1.0" {
		t.Errorf("header = %s %s", doc.OpenAPI, doc.Info.Version)
	}
	if len(doc.Servers) != 1 || doc.Servers[0].URL != "/v1" {
		t.Errorf("servers = %+v", doc.Servers)
	}

	operations := map[string]string{
		"/predict":                           "post",
		"/methods":                           "get",
		"/assessments":                       "post",
		"/assessments/{id}/image":            "get",
		"/prompts/{id}":                      "put",
		"/prompts/{id}/activate":             "post",
		"/prompts/{language}/{stage}/{kind}": "get",
	}
	for path, method := range operations {
		if _, ok := doc.Paths[path][method]; !ok {
			t.Errorf("missing %s %s", method, path)
		}
	}
	if _, ok := doc.Paths["/openapi.json"]; ok {
		t.Error("document should not describe itself")
	}

	for _, name := range []string{"Assessment", "WorkflowResult", "Prompt", "PageRequest"} {
		if _, ok := doc.Components.Schemas[name]; !ok {
			t.Errorf("missing schema %s", name)
		}
	}
}
