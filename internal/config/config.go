package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/tuya-yu/HeartDrawing/pkg/database"
	"github.com/tuya-yu/HeartDrawing/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvHTPEnv             = "HTP_ENV"
	EnvHTPShutdownTimeout = "HTP_SHUTDOWN_TIMEOUT"
	EnvHTPVersion         = "HTP_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "HTP_DB_HOST",
	Port:            "HTP_DB_PORT",
	Name:            "HTP_DB_NAME",
	User:            "HTP_DB_USER",
	Password:        "HTP_DB_PASSWORD",
	SSLMode:         "HTP_DB_SSL_MODE",
	MaxOpenConns:    "HTP_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "HTP_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "HTP_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "HTP_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "HTP_STORAGE_CONTAINER_NAME",
	ConnectionString: "HTP_STORAGE_CONNECTION_STRING",
}

// Config is the root configuration for the HTP service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Workflow        WorkflowConfig  `toml:"workflow"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the HTP_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvHTPEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads config.toml from the working directory. See LoadFile.
func Load() (*Config, error) {
	return LoadFile(BaseConfigFile)
}

// LoadFile reads the base config at path (if present), applies the
// config.<HTP_ENV>.toml overlay found next to it, and finalizes all values.
// Without any file, defaults and environment variables provide everything.
func LoadFile(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// LoadWorkflow reads the same files as LoadFile but finalizes only the
// workflow section, so tools that never touch the database or blob storage
// do not need them configured.
func LoadWorkflow(path string) (*WorkflowConfig, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Workflow.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: workflow: %w", err)
	}

	return &cfg.Workflow, nil
}

// LoadDatabase reads the same files as LoadFile but finalizes only the
// database section.
func LoadDatabase(path string) (*database.Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Database.Finalize(databaseEnv); err != nil {
		return nil, fmt.Errorf("finalize config: database: %w", err)
	}

	return &cfg.Database, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Workflow.Merge(&overlay.Workflow)
}

func read(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := load(path)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
	}

	if overlay := overlayPath(path); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}

	return cfg, nil
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Workflow.Finalize(); err != nil {
		return fmt.Errorf("workflow: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvHTPShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvHTPVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(base string) string {
	env := os.Getenv(EnvHTPEnv)
	if env == "" {
		return ""
	}
	dir := "."
	if base != "" {
		dir = filepath.Dir(base)
	}
	path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
