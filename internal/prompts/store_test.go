package prompts_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tuya-yu/HeartDrawing/internal/prompts"
)

var discard = slog.New(slog.DiscardHandler)

func TestDefaultsCoverEveryKey(t *testing.T) {
	for _, lang := range prompts.Languages() {
		for _, info := range prompts.Stages() {
			for _, kind := range info.Kinds {
				text, err := prompts.Default(lang, info.Stage, kind)
				if err != nil {
					t.Errorf("%s/%s/%s: %v", lang, info.Stage, kind, err)
					continue
				}
				if strings.TrimSpace(text) == "" {
					t.Errorf("%s/%s/%s: empty template", lang, info.Stage, kind)
				}
			}
		}
	}
}

func TestMergeFormatPlaceholders(t *testing.T) {
	for _, lang := range prompts.Languages() {
		text, err := prompts.Default(lang, prompts.StageMerge, prompts.KindFormat)
		if err != nil {
			t.Fatal(err)
		}
		for _, ph := range []string{"{overall_analysis}", "{house_analysis}", "{tree_analysis}", "{person_analysis}"} {
			if !strings.Contains(text, ph) {
				t.Errorf("%s merge format missing %s", lang, ph)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		lang  prompts.Language
		stage prompts.Stage
		kind  prompts.Kind
		want  error
	}{
		{"valid object", "en", "house", "feature", nil},
		{"valid synthesis", "zh", "classify", "format", nil},
		{"bad language", "fr", "house", "feature", prompts.ErrInvalidLanguage},
		{"bad stage", "en", "garden", "feature", prompts.ErrInvalidStage},
		{"kind not valid for stage", "en", "final", "feature", prompts.ErrInvalidKind},
		{"object stage has no instructions", "en", "tree", "instructions", prompts.ErrInvalidKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := prompts.Validate(tt.lang, tt.stage, tt.kind)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

type fakeOverrides struct {
	prompt *prompts.Prompt
	err    error
}

func (f fakeOverrides) Active(ctx context.Context, lang prompts.Language, stage prompts.Stage, kind prompts.Kind) (*prompts.Prompt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.prompt, nil
}

func TestStoreResolutionOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "en"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "en", "tree_feature.txt"), []byte("from disk"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	none := fakeOverrides{err: prompts.ErrNotFound}

	tests := []struct {
		name      string
		overrides prompts.Overrides
		stage     prompts.Stage
		source    string
		content   string
	}{
		{"directory beats default", none, prompts.StageTree, prompts.SourceDirectory, "from disk"},
		{"default when no file", none, prompts.StageHouse, prompts.SourceDefault, ""},
		{"override beats directory", fakeOverrides{prompt: &prompts.Prompt{Template: "stored"}}, prompts.StageTree, prompts.SourceOverride, "stored"},
		{"override failure falls through", fakeOverrides{err: errors.New("db down")}, prompts.StageTree, prompts.SourceDirectory, "from disk"},
		{"nil overrides", nil, prompts.StageTree, prompts.SourceDirectory, "from disk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := prompts.NewStore(dir, tt.overrides, discard)
			got, err := store.Resolve(ctx, prompts.LanguageEN, tt.stage, prompts.KindFeature)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got.Source != tt.source {
				t.Errorf("source = %s, want %s", got.Source, tt.source)
			}
			if tt.content != "" && got.Content != tt.content {
				t.Errorf("content = %q, want %q", got.Content, tt.content)
			}
		})
	}
}

func TestStoreRejectsInvalidKey(t *testing.T) {
	store := prompts.NewStore("", nil, discard)
	_, err := store.Template(context.Background(), "fr", prompts.StageTree, prompts.KindFeature)
	if !errors.Is(err, prompts.ErrInvalidLanguage) {
		t.Errorf("got %v", err)
	}
}
