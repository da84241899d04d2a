package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/repost"
)

// Ensure LoggingGenerator implements repost.TextGenerator.
var _ repost.TextGenerator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a TextGenerator with logging. Prompts and replies
// are logged by size only.
type LoggingGenerator struct {
	next   repost.TextGenerator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next repost.TextGenerator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

// Generate delegates to the wrapped generator and logs the call.
func (g *LoggingGenerator) Generate(ctx context.Context, req repost.GenerateRequest) (reply string, err error) {
	defer func(begin time.Time) {
		g.logger.Info("generate",
			"prompt_chars", len([]rune(req.UserPrompt)),
			"reply_chars", len([]rune(reply)),
			"temperature", req.Temperature,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Generate(ctx, req)
}
