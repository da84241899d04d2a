package mock

import "github.com/fwojciec/repost"

var _ repost.Converter = (*Converter)(nil)

// Converter is a mock implementation of repost.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
