package mock

import (
	"context"

	"github.com/fwojciec/repost"
)

var _ repost.StyleTransformer = (*StyleTransformer)(nil)

// StyleTransformer is a mock implementation of repost.StyleTransformer.
type StyleTransformer struct {
	TransformFn func(ctx context.Context, req repost.TransformRequest) (*repost.StyledPost, error)
}

func (s *StyleTransformer) Transform(ctx context.Context, req repost.TransformRequest) (*repost.StyledPost, error) {
	return s.TransformFn(ctx, req)
}

var _ repost.TextGenerator = (*TextGenerator)(nil)

// TextGenerator is a mock implementation of repost.TextGenerator.
type TextGenerator struct {
	GenerateFn func(ctx context.Context, req repost.GenerateRequest) (string, error)
}

func (g *TextGenerator) Generate(ctx context.Context, req repost.GenerateRequest) (string, error) {
	return g.GenerateFn(ctx, req)
}
