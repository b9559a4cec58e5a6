// Package llm is a small client for OpenAI-compatible chat completion
// endpoints, covering the two call shapes the screening workflow needs:
// text-only prompts and a single image with accompanying instructions.
package llm

import (
	"context"
	"encoding/base64"
	"errors"
)

// ErrInvocation wraps every failure to obtain a completion.
var ErrInvocation = errors.New("model invocation failed")

// Usage is the token accounting reported for one or more calls.
type Usage struct {
	TotalTokens      int `json:"total_tokens"`
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Add returns the field-wise sum of u and o.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		TotalTokens:      u.TotalTokens + o.TotalTokens,
		PromptTokens:     u.PromptTokens + o.PromptTokens,
		CompletionTokens: u.CompletionTokens + o.CompletionTokens,
	}
}

// Image is raw image bytes with their media type.
type Image struct {
	Data      []byte
	MediaType string
}

// DataURI encodes the image as a base64 data URI.
func (i Image) DataURI() string {
	return "data:" + i.MediaType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Turn is the user message of a call: text, optionally with one image.
type Turn struct {
	Text  string
	Image *Image
}

// Response is the completion text and the usage it cost.
type Response struct {
	Text  string
	Usage Usage
}

// Model invokes a chat model with a system prompt and one user turn.
type Model interface {
	Name() string
	Invoke(ctx context.Context, system string, user Turn) (*Response, error)
}
