package mock

import (
	"context"

	"github.com/fwojciec/repost"
)

var _ repost.RunService = (*RunService)(nil)

// RunService is a mock implementation of repost.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *repost.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*repost.Run, error)
	FindRunsFn    func(ctx context.Context, filter repost.RunFilter) ([]*repost.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *repost.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*repost.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter repost.RunFilter) ([]*repost.Run, error) {
	return s.FindRunsFn(ctx, filter)
}
