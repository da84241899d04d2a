package style

import (
	"strings"

	"github.com/fwojciec/repost"
)

// ParseResponse reads a generator reply in the two-part format requested by
// BuildPrompt. The reply must contain BodyMarker exactly once and at least
// one non-blank title line before it; anything else is EPARSE.
//
// Tags are left embedded in the body.
func ParseResponse(raw string) (*repost.StyledPost, error) {
	parts := strings.Split(raw, BodyMarker)
	if len(parts) != 2 {
		return nil, repost.Errorf(repost.EPARSE, "expected one %q section, found %d", BodyMarker, len(parts)-1)
	}

	head := parts[0]
	if _, after, ok := strings.Cut(head, TitleMarker); ok {
		head = after
	}

	titles := make([]string, 0, repost.MaxTitleCandidates)
	for _, line := range strings.Split(head, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		titles = append(titles, line)
		if len(titles) == repost.MaxTitleCandidates {
			break
		}
	}
	if len(titles) == 0 {
		return nil, repost.Errorf(repost.EPARSE, "no title candidates before %q", BodyMarker)
	}

	return &repost.StyledPost{
		TitleCandidates: titles,
		Body:            strings.TrimSpace(parts[1]),
	}, nil
}
