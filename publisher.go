package repost

import "context"

// PublishRequest is a finished post handed to a Publisher.
type PublishRequest struct {
	Title      string
	Body       string
	ImagePaths []string
}

// PublishResult reports the outcome of a publish attempt.
type PublishResult struct {
	Success bool
	Message string
	PostURL string
}

// Publisher posts content to the target platform.
type Publisher interface {
	// Publish posts req. A rejected post is reported through
	// PublishResult.Success; the error is reserved for failures to
	// drive the publishing flow at all.
	Publish(ctx context.Context, req PublishRequest) (*PublishResult, error)
}
