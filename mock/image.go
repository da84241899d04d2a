package mock

import "github.com/fwojciec/repost"

var _ repost.ImageNormalizer = (*ImageNormalizer)(nil)

// ImageNormalizer is a mock implementation of repost.ImageNormalizer.
type ImageNormalizer struct {
	NormalizeFn func(raw []byte) (*repost.NormalizedImage, error)
}

func (n *ImageNormalizer) Normalize(raw []byte) (*repost.NormalizedImage, error) {
	return n.NormalizeFn(raw)
}
