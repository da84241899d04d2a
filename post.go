package repost

import "context"

// MaxTitleCandidates is the most title candidates a post carries.
const MaxTitleCandidates = 5

// StyledPost is a short-form post ready for publication.
type StyledPost struct {
	TitleCandidates []string `yaml:"titles"`
	Body            string   `yaml:"body"`
	Tags            []string `yaml:"tags,omitempty"`
}

// Title returns the canonical title, the first candidate.
func (p *StyledPost) Title() string {
	if len(p.TitleCandidates) == 0 {
		return ""
	}
	return p.TitleCandidates[0]
}

// Validate returns an error if the post breaks the title candidate invariant.
func (p *StyledPost) Validate() error {
	if len(p.TitleCandidates) == 0 {
		return Errorf(EINVALID, "post title candidate required")
	}
	if len(p.TitleCandidates) > MaxTitleCandidates {
		return Errorf(EINVALID, "post has %d title candidates, at most %d allowed", len(p.TitleCandidates), MaxTitleCandidates)
	}
	return nil
}

// TransformRequest is the input of a style transformation.
type TransformRequest struct {
	Title string
	Body  string
}

// StyleTransformer rewrites article text into a platform-specific post.
type StyleTransformer interface {
	// Transform returns the styled post for req.
	Transform(ctx context.Context, req TransformRequest) (*StyledPost, error)
}
