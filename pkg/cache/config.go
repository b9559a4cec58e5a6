package cache

import (
	"fmt"
	"os"
)

// Drivers accepted by Config.Driver.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
	DriverNone   = "none"
)

// Config selects and configures the response cache.
type Config struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Driver string
	Path   string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	if c.Driver == "" {
		c.Driver = DriverSQLite
	}
	if c.Path == "" {
		c.Path = "cache.db"
	}
	if env != nil {
		if v := lookup(env.Driver); v != "" {
			c.Driver = v
		}
		if v := lookup(env.Path); v != "" {
			c.Path = v
		}
	}

	switch c.Driver {
	case DriverSQLite, DriverMemory, DriverNone:
		return nil
	default:
		return fmt.Errorf("unknown cache driver %q", c.Driver)
	}
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Driver != "" {
		c.Driver = overlay.Driver
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
