package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config describes an OpenAI-compatible endpoint and the sampling parameters
// applied to every call.
type Config struct {
	BaseURL     string   `toml:"base_url"`
	APIKey      string   `toml:"api_key"`
	Model       string   `toml:"model"`
	VisionModel string   `toml:"vision_model"`
	Temperature *float64 `toml:"temperature"`
	TopP        *float64 `toml:"top_p"`
	Seed        *int     `toml:"seed"`
	Timeout     string   `toml:"timeout"`
	// MaxRetries applies to 429 and 5xx responses. Negative disables retries.
	MaxRetries int `toml:"max_retries"`
}

// Env maps config fields to environment variable names.
type Env struct {
	BaseURL     string
	APIKey      string
	Model       string
	VisionModel string
	Timeout     string
	MaxRetries  string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	if c.VisionModel == "" {
		c.VisionModel = c.Model
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.VisionModel != "" {
		c.VisionModel = overlay.VisionModel
	}
	if overlay.Temperature != nil {
		c.Temperature = overlay.Temperature
	}
	if overlay.TopP != nil {
		c.TopP = overlay.TopP
	}
	if overlay.Seed != nil {
		c.Seed = overlay.Seed
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
}

// TimeoutDuration parses Timeout. Call after Finalize.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.Model == "" {
		c.Model = "gpt-4o"
	}
	if c.Temperature == nil {
		t := 0.2
		c.Temperature = &t
	}
	if c.TopP == nil {
		p := 0.75
		c.TopP = &p
	}
	if c.Seed == nil {
		s := 42
		c.Seed = &s
	}
	if c.Timeout == "" {
		c.Timeout = "120s"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := lookup(env.BaseURL); v != "" {
		c.BaseURL = v
	}
	if v := lookup(env.APIKey); v != "" {
		c.APIKey = v
	}
	if v := lookup(env.Model); v != "" {
		c.Model = v
	}
	if v := lookup(env.VisionModel); v != "" {
		c.VisionModel = v
	}
	if v := lookup(env.Timeout); v != "" {
		c.Timeout = v
	}
	if v := lookup(env.MaxRetries); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
}

func (c *Config) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
