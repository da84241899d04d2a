package mock

import (
	"context"

	"github.com/fwojciec/repost"
)

var _ repost.Storage = (*Storage)(nil)

// Storage is a mock implementation of repost.Storage.
type Storage struct {
	PersistFn func(ctx context.Context, title string, files []repost.File) ([]string, error)
}

func (s *Storage) Persist(ctx context.Context, title string, files []repost.File) ([]string, error) {
	return s.PersistFn(ctx, title, files)
}

var _ repost.Publisher = (*Publisher)(nil)

// Publisher is a mock implementation of repost.Publisher.
type Publisher struct {
	PublishFn func(ctx context.Context, req repost.PublishRequest) (*repost.PublishResult, error)
}

func (p *Publisher) Publish(ctx context.Context, req repost.PublishRequest) (*repost.PublishResult, error) {
	return p.PublishFn(ctx, req)
}
