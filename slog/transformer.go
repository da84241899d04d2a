package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/repost"
)

// Ensure LoggingTransformer implements repost.StyleTransformer.
var _ repost.StyleTransformer = (*LoggingTransformer)(nil)

// LoggingTransformer wraps a StyleTransformer with logging.
type LoggingTransformer struct {
	next     repost.StyleTransformer
	strategy string
	logger   *slog.Logger
}

// NewLoggingTransformer creates a new LoggingTransformer. strategy names
// the wrapped transformer in log records.
func NewLoggingTransformer(next repost.StyleTransformer, strategy string, logger *slog.Logger) *LoggingTransformer {
	return &LoggingTransformer{next: next, strategy: strategy, logger: logger}
}

// Transform delegates to the wrapped transformer and logs the result.
func (t *LoggingTransformer) Transform(ctx context.Context, req repost.TransformRequest) (post *repost.StyledPost, err error) {
	defer func(begin time.Time) {
		var title string
		var titles int
		if post != nil {
			title, titles = post.Title(), len(post.TitleCandidates)
		}
		t.logger.Info("transform",
			"strategy", t.strategy,
			"title", title,
			"titles", titles,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return t.next.Transform(ctx, req)
}
