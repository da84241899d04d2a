package repost

import (
	"context"
	"time"
)

// Run statuses.
const (
	RunConverted = "converted"
	RunPublished = "published"
	RunFailed    = "failed"
)

// Run is the history record of one pipeline run.
type Run struct {
	ID          string    `json:"id"`
	SourceURL   string    `json:"sourceUrl"`
	Title       string    `json:"title"`
	ContentHash string    `json:"contentHash"`
	Strategy    string    `json:"strategy"`
	Images      int       `json:"images"`
	Failures    int       `json:"failures"`
	Dir         string    `json:"dir"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	PostURL     string    `json:"postUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.SourceURL == "" {
		return Errorf(EINVALID, "run source URL required")
	}
	switch r.Status {
	case RunConverted, RunPublished, RunFailed:
	default:
		return Errorf(EINVALID, "run status %q not recognized", r.Status)
	}
	return nil
}

// RunService represents a service for recording pipeline runs.
type RunService interface {
	// CreateRun records a new run. ID and CreatedAt are assigned.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	SourceURL   *string `json:"sourceUrl"`
	ContentHash *string `json:"contentHash"`
	Status      *string `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
