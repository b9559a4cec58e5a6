package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tuya-yu/HeartDrawing/internal/config"
)

const baseConfig = `
shutdown_timeout = "20s"
version = "1.2.0"

[server]
port = 8080
write_timeout = "5m"

[database]
name = "htp"
user = "htp"
password = "htp"

[storage]
connection_string = "UseDevelopmentStorage=true"

[api]
max_upload_size = "8MB"

[api.pagination]
default_page_size = 25
max_page_size = 50

[api.openapi]
title = "Clinic Screening"

[workflow]
[workflow.llm]
api_key = "sk-test"
model = "qwen-max"
vision_model = "qwen-vl-max"

[workflow.cache]
driver = "memory"
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"

[workflow.llm]
model = "gpt-4o"
`

func writeConfig(t *testing.T, dir, filename, content string) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.toml", baseConfig)

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.ShutdownTimeoutDuration() != 20*time.Second {
		t.Errorf("shutdown timeout = %v", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("addr = %s", cfg.Server.Addr())
	}
	if cfg.Server.WriteTimeoutDuration() != 5*time.Minute {
		t.Errorf("write timeout = %v", cfg.Server.WriteTimeoutDuration())
	}
	if cfg.API.BasePath != "/v1" {
		t.Errorf("base path = %s", cfg.API.BasePath)
	}
	if cfg.API.MaxUploadSizeBytes() != 8<<20 {
		t.Errorf("max upload = %d", cfg.API.MaxUploadSizeBytes())
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("page size = %d", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.OpenAPI.Title != "Clinic Screening" || cfg.API.OpenAPI.Description == "" {
		t.Errorf("openapi = %+v", cfg.API.OpenAPI)
	}
	if cfg.Storage.ContainerName != "drawings" {
		t.Errorf("container = %s", cfg.Storage.ContainerName)
	}
	if cfg.Workflow.LLM.VisionModel != "qwen-vl-max" || cfg.Workflow.Cache.Driver != "memory" {
		t.Errorf("workflow = %+v", cfg.Workflow)
	}
	if *cfg.Workflow.LLM.Seed != 42 || *cfg.Workflow.LLM.Temperature != 0.2 {
		t.Errorf("sampling defaults not applied: %+v", cfg.Workflow.LLM)
	}
}

func TestLoadFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	t.Setenv(config.EnvHTPEnv, "staging")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Env() != "staging" {
		t.Errorf("env = %s", cfg.Env())
	}
	if cfg.Server.Port != 9090 || cfg.Database.Host != "prodhost" {
		t.Errorf("overlay not applied: port=%d host=%s", cfg.Server.Port, cfg.Database.Host)
	}
	if cfg.Workflow.LLM.Model != "gpt-4o" || cfg.Workflow.LLM.VisionModel != "qwen-vl-max" {
		t.Errorf("llm = %s / %s", cfg.Workflow.LLM.Model, cfg.Workflow.LLM.VisionModel)
	}
}

func TestLoadFileEnvOverrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.toml", baseConfig)
	t.Setenv("HTP_SERVER_PORT", "7000")
	t.Setenv("HTP_LLM_API_KEY", "sk-env")
	t.Setenv("HTP_CACHE_DRIVER", "none")
	t.Setenv("HTP_OPENAPI_TITLE", "Env Title")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.API.OpenAPI.Title != "Env Title" {
		t.Errorf("openapi title = %s", cfg.API.OpenAPI.Title)
	}
	if cfg.Workflow.LLM.APIKey != "sk-env" || cfg.Workflow.Cache.Driver != "none" {
		t.Errorf("workflow = %+v", cfg.Workflow)
	}
}

func TestLoadFileValidation(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
		want    string
	}{
		{"bad upload size", [2]string{`max_upload_size = "8MB"`, `max_upload_size = "lots"`}, "max_upload_size"},
		{"bad port", [2]string{"port = 8080", "port = 70000"}, "invalid port"},
		{"missing api key", [2]string{`api_key = "sk-test"`, ""}, "api_key"},
		{"unknown cache", [2]string{`driver = "memory"`, `driver = "redis"`}, "cache driver"},
		{"missing storage", [2]string{`connection_string = "UseDevelopmentStorage=true"`, ""}, "connection_string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := strings.Replace(baseConfig, tt.replace[0], tt.replace[1], 1)
			path := writeConfig(t, t.TempDir(), "config.toml", content)

			_, err := config.LoadFile(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadWorkflowIgnoresServerSections(t *testing.T) {
	content := `
[workflow.llm]
api_key = "sk-test"
`
	path := writeConfig(t, t.TempDir(), "htp.toml", content)

	wf, err := config.LoadWorkflow(path)
	if err != nil {
		t.Fatalf("LoadWorkflow: %v", err)
	}
	if wf.LLM.Model != "gpt-4o" || wf.LLM.VisionModel != "gpt-4o" {
		t.Errorf("models = %s / %s", wf.LLM.Model, wf.LLM.VisionModel)
	}
	if wf.Cache.Driver != "sqlite" || wf.Cache.Path != "cache.db" {
		t.Errorf("cache = %+v", wf.Cache)
	}
}

func TestLoadWorkflowMissingFile(t *testing.T) {
	t.Setenv("HTP_LLM_API_KEY", "sk-env")

	wf, err := config.LoadWorkflow(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadWorkflow: %v", err)
	}
	if wf.LLM.APIKey != "sk-env" {
		t.Errorf("api key = %q", wf.LLM.APIKey)
	}
}

func TestPromptsDirMustExist(t *testing.T) {
	t.Setenv("HTP_LLM_API_KEY", "sk-env")
	t.Setenv(config.EnvWorkflowPromptsDir, filepath.Join(t.TempDir(), "missing"))

	if _, err := config.LoadWorkflow(""); err == nil {
		t.Fatal("expected error for missing prompts dir")
	}
}
