package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/repost"
)

// Ensure LoggingExtractor implements repost.Extractor.
var _ repost.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   repost.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next repost.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs what it found.
func (e *LoggingExtractor) Extract(html, baseURL string) (article *repost.Article, err error) {
	defer func(begin time.Time) {
		var title string
		var blocks, images int
		if article != nil {
			title, blocks, images = article.Title, len(article.TextBlocks), len(article.ImageURLs)
		}
		e.logger.Info("extract",
			"url", baseURL,
			"title", title,
			"blocks", blocks,
			"images", images,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html, baseURL)
}
