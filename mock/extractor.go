package mock

import "github.com/fwojciec/repost"

var _ repost.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of repost.Extractor.
type Extractor struct {
	ExtractFn func(html, baseURL string) (*repost.Article, error)
}

func (e *Extractor) Extract(html, baseURL string) (*repost.Article, error) {
	return e.ExtractFn(html, baseURL)
}
