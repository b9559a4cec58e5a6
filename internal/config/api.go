package config

import (
	"fmt"
	"os"

	"github.com/tuya-yu/HeartDrawing/pkg/formatting"
	"github.com/tuya-yu/HeartDrawing/pkg/middleware"
	"github.com/tuya-yu/HeartDrawing/pkg/openapi"
	"github.com/tuya-yu/HeartDrawing/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "HTP_CORS_ENABLED",
	Origins:          "HTP_CORS_ORIGINS",
	AllowedMethods:   "HTP_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "HTP_CORS_ALLOWED_HEADERS",
	AllowCredentials: "HTP_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "HTP_CORS_MAX_AGE",
}

var openapiEnv = &openapi.Env{
	Title:       "HTP_OPENAPI_TITLE",
	Description: "HTP_OPENAPI_DESCRIPTION",
}

var paginationEnv = &pagination.Env{
	DefaultPageSize: "HTP_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "HTP_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, upload limits, CORS, pagination, and the
// metadata of the served OpenAPI document.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes. Validated by Finalize.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, _ := formatting.ParseSize(c.MaxUploadSize)
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/v1"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "20MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("HTP_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("HTP_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *APIConfig) validate() error {
	size, err := formatting.ParseSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	return nil
}
