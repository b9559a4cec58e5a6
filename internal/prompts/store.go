package prompts

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

//go:embed templates
var defaults embed.FS

func fileName(lang Language, stage Stage, kind Kind) string {
	return fmt.Sprintf("%s/%s_%s.txt", lang, stage, kind)
}

// Default returns the embedded template for a key.
func Default(lang Language, stage Stage, kind Kind) (string, error) {
	if err := Validate(lang, stage, kind); err != nil {
		return "", err
	}
	b, err := defaults.ReadFile("templates/" + fileName(lang, stage, kind))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, fileName(lang, stage, kind))
	}
	return string(b), nil
}

// Overrides supplies the active stored override for a key, or ErrNotFound.
type Overrides interface {
	Active(ctx context.Context, lang Language, stage Stage, kind Kind) (*Prompt, error)
}

// Store resolves templates from, in order: the active override, a file
// under dir laid out as <lang>/<stage>_<kind>.txt, and the embedded default.
// Both dir and overrides are optional.
type Store struct {
	dir       string
	overrides Overrides
	logger    *slog.Logger
}

// NewStore creates a Store.
func NewStore(dir string, overrides Overrides, logger *slog.Logger) *Store {
	return &Store{
		dir:       dir,
		overrides: overrides,
		logger:    logger.With("component", "prompt-store"),
	}
}

// Resolve returns the effective template for a key along with its source.
// Override lookup failures other than ErrNotFound are logged and skipped so
// an unavailable database does not stop a run.
func (s *Store) Resolve(ctx context.Context, lang Language, stage Stage, kind Kind) (*Template, error) {
	if err := Validate(lang, stage, kind); err != nil {
		return nil, err
	}
	t := &Template{Language: lang, Stage: stage, Kind: kind}

	if s.overrides != nil {
		p, err := s.overrides.Active(ctx, lang, stage, kind)
		switch {
		case err == nil:
			t.Source, t.Content = SourceOverride, p.Template
			return t, nil
		case !errors.Is(err, ErrNotFound):
			s.logger.WarnContext(ctx, "override lookup failed",
				"language", lang, "stage", stage, "kind", kind, "error", err)
		}
	}

	if s.dir != "" {
		b, err := os.ReadFile(filepath.Join(s.dir, filepath.FromSlash(fileName(lang, stage, kind))))
		switch {
		case err == nil:
			t.Source, t.Content = SourceDirectory, string(b)
			return t, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("read template: %w", err)
		}
	}

	content, err := Default(lang, stage, kind)
	if err != nil {
		return nil, err
	}
	t.Source, t.Content = SourceDefault, content
	return t, nil
}

// Template returns only the effective template text.
func (s *Store) Template(ctx context.Context, lang Language, stage Stage, kind Kind) (string, error) {
	t, err := s.Resolve(ctx, lang, stage, kind)
	if err != nil {
		return "", err
	}
	return t.Content, nil
}
