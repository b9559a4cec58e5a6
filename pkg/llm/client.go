package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxResponseBytes caps how much of a completion response body is read.
const maxResponseBytes = 8 << 20

// Client calls POST {base_url}/chat/completions for one model.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	topP        float64
	seed        int
	maxRetries  int
	backoff     time.Duration
	http        *http.Client
	logger      *slog.Logger
}

// New creates a client for model using the endpoint and sampling settings in cfg.
// cfg must be finalized.
func New(cfg *Config, model string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: *cfg.Temperature,
		topP:        *cfg.TopP,
		seed:        *cfg.Seed,
		maxRetries:  max(cfg.MaxRetries, 0),
		backoff:     500 * time.Millisecond,
		http:        &http.Client{Timeout: cfg.TimeoutDuration()},
		logger:      logger.With("model", model),
	}
}

// WithBackoff sets the base delay between retries; it doubles per attempt.
func (c *Client) WithBackoff(d time.Duration) *Client {
	c.backoff = d
	return c
}

func (c *Client) Name() string {
	return c.model
}

// Fingerprint identifies the model together with its sampling settings.
func (c *Client) Fingerprint() string {
	return fmt.Sprintf("%s temperature=%g top_p=%g seed=%d", c.model, c.temperature, c.topP, c.seed)
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	Seed        int           `json:"seed"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *Usage `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Invoke sends system and user as a two-message conversation. An image on the
// user turn is sent as a data URI content part after the text.
func (c *Client) Invoke(ctx context.Context, system string, user Turn) (*Response, error) {
	var content any = user.Text
	if user.Image != nil {
		content = []contentPart{
			{Type: "text", Text: user.Text},
			{Type: "image_url", ImageURL: &imageURL{URL: user.Image.DataURI()}},
		}
	}

	messages := make([]chatMessage, 0, 2)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: content})

	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		TopP:        c.topP,
		Seed:        c.seed,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrInvocation, err)
	}

	for attempt := 0; ; attempt++ {
		resp, retry, err := c.do(ctx, payload)
		if err == nil {
			return resp, nil
		}
		if !retry || attempt >= c.maxRetries {
			return nil, err
		}

		wait := c.backoff << attempt
		c.logger.WarnContext(ctx, "retrying completion", "attempt", attempt+1, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrInvocation, ctx.Err())
		case <-time.After(wait):
		}
	}
}

// do performs one request. The bool result reports whether a retry may succeed.
func (c *Client) do(ctx context.Context, payload []byte) (*Response, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvocation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("%w: %v", ErrInvocation, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes+1))
	if err != nil {
		return nil, true, fmt.Errorf("%w: read response: %v", ErrInvocation, err)
	}
	if len(body) > maxResponseBytes {
		return nil, false, fmt.Errorf("%w: response exceeds %d bytes", ErrInvocation, maxResponseBytes)
	}

	var parsed chatResponse
	jsonErr := json.Unmarshal(body, &parsed)

	if res.StatusCode != http.StatusOK {
		retry := res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500
		msg := strings.TrimSpace(string(body))
		if jsonErr == nil && parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return nil, retry, fmt.Errorf("%w: status %d: %s", ErrInvocation, res.StatusCode, msg)
	}
	if jsonErr != nil {
		return nil, false, fmt.Errorf("%w: decode response: %v", ErrInvocation, jsonErr)
	}
	if parsed.Error != nil {
		return nil, false, fmt.Errorf("%w: %s (%s)", ErrInvocation, parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return nil, false, fmt.Errorf("%w: response has no choices", ErrInvocation)
	}

	out := &Response{Text: parsed.Choices[0].Message.Content}
	if parsed.Usage != nil {
		out.Usage = *parsed.Usage
		if out.Usage.TotalTokens == 0 {
			out.Usage.TotalTokens = out.Usage.PromptTokens + out.Usage.CompletionTokens
		}
	}

	c.logger.DebugContext(ctx, "completion",
		"prompt_tokens", out.Usage.PromptTokens,
		"completion_tokens", out.Usage.CompletionTokens,
		"total_tokens", out.Usage.TotalTokens,
	)
	return out, false, nil
}

var (
	_ Model         = (*Client)(nil)
	_ Fingerprinter = (*Client)(nil)
)
