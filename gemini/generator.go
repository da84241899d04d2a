package gemini

import (
	"context"
	"errors"

	"github.com/fwojciec/repost"
	"google.golang.org/genai"
)

// DefaultModel is used when NewGenerator is given an empty model.
const DefaultModel = "gemini-2.5-flash"

// Ensure Generator implements repost.TextGenerator at compile time.
var _ repost.TextGenerator = (*Generator)(nil)

// Generator implements repost.TextGenerator using Google Gemini.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a new Generator.
func NewGenerator(client *genai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// Generate sends the user prompt with the system prompt as system
// instruction and returns the response text.
func (g *Generator) Generate(ctx context.Context, req repost.GenerateRequest) (string, error) {
	if req.UserPrompt == "" {
		return "", repost.Errorf(repost.EINVALID, "user prompt required")
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: req.UserPrompt}},
		}},
		BuildConfig(req),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", repost.WrapError(repost.EGENERATE, err, "generation timed out after %s", req.Timeout)
		}
		return "", repost.WrapError(repost.EGENERATE, err, "gemini request failed")
	}
	if result == nil {
		return "", repost.Errorf(repost.EGENERATE, "gemini returned nil result")
	}

	text := result.Text()
	if text == "" {
		return "", repost.Errorf(repost.EGENERATE, "gemini returned no text")
	}
	return text, nil
}

// BuildConfig returns the GenerateContentConfig for req.
func BuildConfig(req repost.GenerateRequest) *genai.GenerateContentConfig {
	temp := req.Temperature
	config := &genai.GenerateContentConfig{Temperature: &temp}
	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}
	return config
}
