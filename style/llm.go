package style

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/repost"
)

// Defaults for LLMTransformer.
const (
	DefaultTemperature = 0.7
	DefaultTimeout     = 60 * time.Second
)

// Ensure LLMTransformer implements repost.StyleTransformer at compile time.
var _ repost.StyleTransformer = (*LLMTransformer)(nil)

// LLMTransformer asks a text generator to rewrite the article and parses the
// reply with ParseResponse.
type LLMTransformer struct {
	Generator repost.TextGenerator

	// Temperature is the sampling temperature. Zero means DefaultTemperature.
	Temperature float32

	// Timeout bounds each generator call. Zero means DefaultTimeout.
	Timeout time.Duration

	// RetryDelays are waits between generator attempts. Empty means a
	// single attempt. Parse failures are never retried.
	RetryDelays []time.Duration

	// Logger, if set, records retries.
	Logger *slog.Logger
}

// NewLLMTransformer creates an LLMTransformer with default settings.
func NewLLMTransformer(gen repost.TextGenerator) *LLMTransformer {
	return &LLMTransformer{Generator: gen}
}

// Transform prompts the generator and parses its reply. Generator errors
// (EGENERATE) and parse errors (EPARSE) are returned unchanged.
func (t *LLMTransformer) Transform(ctx context.Context, req repost.TransformRequest) (*repost.StyledPost, error) {
	if t.Generator == nil {
		return nil, repost.Errorf(repost.EINVALID, "text generator required")
	}

	genReq := repost.GenerateRequest{
		SystemPrompt: SystemPrompt,
		UserPrompt:   BuildPrompt(req.Title, req.Body),
		Temperature:  t.Temperature,
		Timeout:      t.Timeout,
	}
	if genReq.Temperature == 0 {
		genReq.Temperature = DefaultTemperature
	}
	if genReq.Timeout == 0 {
		genReq.Timeout = DefaultTimeout
	}

	reply, err := t.generate(ctx, genReq)
	if err != nil {
		return nil, err
	}
	return ParseResponse(reply)
}

func (t *LLMTransformer) generate(ctx context.Context, req repost.GenerateRequest) (string, error) {
	maxAttempts := len(t.RetryDelays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		reply, err := t.Generator.Generate(ctx, req)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		if t.Logger != nil {
			t.Logger.Warn("retrying generation", "attempt", attempt+2, "error", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(t.RetryDelays[attempt]):
		}
	}
	return "", lastErr
}
