package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
)

// Cache stores completion text by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Fingerprinter is implemented by models whose output depends on settings
// beyond the model name. The fingerprint replaces the name in cache keys.
type Fingerprinter interface {
	Fingerprint() string
}

type cached struct {
	model    Model
	identity string
	cache    Cache
	logger   *slog.Logger
}

// WithCache returns a Model that serves repeated identical calls from cache.
// A cache hit reports zero usage. Cache read and write failures are logged and
// the call proceeds against the wrapped model.
func WithCache(m Model, c Cache, logger *slog.Logger) Model {
	identity := m.Name()
	if f, ok := m.(Fingerprinter); ok {
		identity = f.Fingerprint()
	}

	return &cached{
		model:    m,
		identity: identity,
		cache:    c,
		logger:   logger.With("model", m.Name(), "cache", true),
	}
}

func (c *cached) Name() string {
	return c.model.Name()
}

func (c *cached) Invoke(ctx context.Context, system string, user Turn) (*Response, error) {
	key := CacheKey(c.identity, system, user)

	if v, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.WarnContext(ctx, "cache read failed", "error", err)
	} else if ok {
		return &Response{Text: string(v)}, nil
	}

	resp, err := c.model.Invoke(ctx, system, user)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Put(ctx, key, []byte(resp.Text)); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", "error", err)
	}
	return resp, nil
}

// CacheKey hashes everything that determines a completion. model is the
// model identity, a fingerprint when the model provides one.
func CacheKey(model, system string, user Turn) string {
	payload := struct {
		Model  string `json:"model"`
		System string `json:"system"`
		Text   string `json:"text"`
		Image  string `json:"image,omitempty"`
	}{
		Model:  model,
		System: system,
		Text:   user.Text,
	}
	if user.Image != nil {
		payload.Image = user.Image.DataURI()
	}

	b, _ := json.Marshal(payload)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
