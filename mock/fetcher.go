package mock

import (
	"context"

	"github.com/fwojciec/repost"
)

var _ repost.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of repost.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string, header map[string]string) (*repost.Response, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string, header map[string]string) (*repost.Response, error) {
	return f.FetchFn(ctx, url, header)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
