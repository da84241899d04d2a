// Package openai implements repost.TextGenerator against OpenAI-compatible
// chat completion endpoints.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/repost"
	openai "github.com/sashabaranov/go-openai"
)

// Auth schemes.
const (
	// AuthBearer sends "Authorization: Bearer <key>".
	AuthBearer = "bearer"
	// AuthAzure sends "api-key: <key>" and routes by deployment.
	AuthAzure = "azure"
)

// DefaultModel is used when Config.ModelID is empty.
const DefaultModel = "qwen-max"

// Config configures a Generator.
type Config struct {
	APIKey     string
	AuthScheme string
	ModelID    string
	// Endpoint is the API base URL, e.g. "https://api.openai.com/v1".
	// Empty means the OpenAI default.
	Endpoint string
	// HTTPClient overrides the transport. Nil means http.DefaultClient.
	HTTPClient *http.Client
}

// Ensure Generator implements repost.TextGenerator at compile time.
var _ repost.TextGenerator = (*Generator)(nil)

// Generator implements repost.TextGenerator using go-openai.
type Generator struct {
	client *openai.Client
	model  string
}

// NewGenerator creates a new Generator.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, repost.Errorf(repost.EINVALID, "API key required")
	}

	var clientCfg openai.ClientConfig
	switch strings.ToLower(cfg.AuthScheme) {
	case "", AuthBearer:
		clientCfg = openai.DefaultConfig(cfg.APIKey)
		if cfg.Endpoint != "" {
			clientCfg.BaseURL = strings.TrimRight(cfg.Endpoint, "/")
		}
	case AuthAzure:
		if cfg.Endpoint == "" {
			return nil, repost.Errorf(repost.EINVALID, "endpoint required for azure auth")
		}
		clientCfg = openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	default:
		return nil, repost.Errorf(repost.EINVALID, "auth scheme %q not recognized", cfg.AuthScheme)
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}

	model := cfg.ModelID
	if model == "" {
		model = DefaultModel
	}

	return &Generator{client: openai.NewClientWithConfig(clientCfg), model: model}, nil
}

// Generate sends a system and a user message and returns the first choice.
func (g *Generator) Generate(ctx context.Context, req repost.GenerateRequest) (string, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var messages []openai.ChatCompletionMessage
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt})

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: req.Temperature,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", repost.WrapError(repost.EGENERATE, err, "generation timed out after %s", time.Since(start).Round(time.Millisecond))
		}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", repost.WrapError(repost.EGENERATE, err, "generation failed with status %d", apiErr.HTTPStatusCode)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", repost.WrapError(repost.EGENERATE, err, "generation failed with status %d", reqErr.HTTPStatusCode)
		}
		return "", repost.WrapError(repost.EGENERATE, err, "generation request failed")
	}

	if len(resp.Choices) == 0 {
		return "", repost.Errorf(repost.EGENERATE, "response has no choices")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", repost.Errorf(repost.EGENERATE, "response has no message content")
	}
	return content, nil
}
