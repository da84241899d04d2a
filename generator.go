package repost

import (
	"context"
	"time"
)

// GenerateRequest is a single chat-style text generation call.
type GenerateRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32

	// Timeout bounds the call. Zero means the implementation default.
	Timeout time.Duration
}

// TextGenerator calls a large language model.
type TextGenerator interface {
	// Generate returns the model's reply text.
	// Returns EGENERATE on a non-success status, a malformed payload
	// or a timeout.
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
