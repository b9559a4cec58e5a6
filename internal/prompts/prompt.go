// Package prompts owns the templates that drive each workflow stage: the
// embedded defaults per language, optional on-disk replacements, and named
// overrides stored in PostgreSQL that can be activated per template key.
package prompts

import "github.com/google/uuid"

// Prompt is a named template override for one (language, stage, kind) key.
// At most one prompt per key is active.
type Prompt struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Language    Language  `json:"language"`
	Stage       Stage     `json:"stage"`
	Kind        Kind      `json:"kind"`
	Template    string    `json:"template"`
	Description *string   `json:"description"`
	Active      bool      `json:"active"`
}

// CreateCommand carries the fields for a new override.
type CreateCommand struct {
	Name        string   `json:"name"`
	Language    Language `json:"language"`
	Stage       Stage    `json:"stage"`
	Kind        Kind     `json:"kind"`
	Template    string   `json:"template"`
	Description *string  `json:"description"`
}

// UpdateCommand replaces the editable fields of an override.
type UpdateCommand = CreateCommand

// Template is the effective text for a key and where it came from.
type Template struct {
	Language Language `json:"language"`
	Stage    Stage    `json:"stage"`
	Kind     Kind     `json:"kind"`
	Source   string   `json:"source"`
	Content  string   `json:"content"`
}

// Template sources.
const (
	SourceDefault   = "default"
	SourceDirectory = "directory"
	SourceOverride  = "override"
)
