package config

import (
	"fmt"
	"os"

	"github.com/tuya-yu/HeartDrawing/pkg/cache"
	"github.com/tuya-yu/HeartDrawing/pkg/llm"
)

const EnvWorkflowPromptsDir = "HTP_PROMPTS_DIR"

var llmEnv = &llm.Env{
	BaseURL:     "HTP_LLM_BASE_URL",
	APIKey:      "HTP_LLM_API_KEY",
	Model:       "HTP_LLM_MODEL",
	VisionModel: "HTP_LLM_VISION_MODEL",
	Timeout:     "HTP_LLM_TIMEOUT",
	MaxRetries:  "HTP_LLM_MAX_RETRIES",
}

var cacheEnv = &cache.Env{
	Driver: "HTP_CACHE_DRIVER",
	Path:   "HTP_CACHE_PATH",
}

// WorkflowConfig configures the screening workflow: the model endpoint, the
// response cache, and an optional directory of template files.
type WorkflowConfig struct {
	LLM        llm.Config   `toml:"llm"`
	Cache      cache.Config `toml:"cache"`
	PromptsDir string       `toml:"prompts_dir"`
}

// Finalize applies environment variable overrides and validation to the
// nested model and cache configs.
func (c *WorkflowConfig) Finalize() error {
	if v := os.Getenv(EnvWorkflowPromptsDir); v != "" {
		c.PromptsDir = v
	}
	if c.PromptsDir != "" {
		info, err := os.Stat(c.PromptsDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("prompts_dir %q is not a directory", c.PromptsDir)
		}
	}

	if err := c.LLM.Finalize(llmEnv); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Cache.Finalize(cacheEnv); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *WorkflowConfig) Merge(overlay *WorkflowConfig) {
	if overlay.PromptsDir != "" {
		c.PromptsDir = overlay.PromptsDir
	}
	c.LLM.Merge(&overlay.LLM)
	c.Cache.Merge(&overlay.Cache)
}
