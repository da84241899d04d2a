package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/repost"
)

// Ensure LoggingPublisher implements repost.Publisher.
var _ repost.Publisher = (*LoggingPublisher)(nil)

// LoggingPublisher wraps a Publisher with logging.
type LoggingPublisher struct {
	next   repost.Publisher
	logger *slog.Logger
}

// NewLoggingPublisher creates a new LoggingPublisher.
func NewLoggingPublisher(next repost.Publisher, logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{next: next, logger: logger}
}

// Publish delegates to the wrapped publisher and logs the outcome.
func (p *LoggingPublisher) Publish(ctx context.Context, req repost.PublishRequest) (result *repost.PublishResult, err error) {
	defer func(begin time.Time) {
		var success bool
		var message string
		if result != nil {
			success, message = result.Success, result.Message
		}
		p.logger.Info("publish",
			"title", req.Title,
			"images", len(req.ImagePaths),
			"success", success,
			"message", message,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Publish(ctx, req)
}
