// Package trafilatura locates article content with go-trafilatura's
// boilerplate detection, for pages no selector profile fits.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/repost"
	"github.com/fwojciec/repost/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements repost.Extractor at compile time.
var _ repost.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to find the main content region, then
// walks it with the page profile's text and image rules.
type Extractor struct {
	profile goquery.Profile
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{profile: goquery.PageProfile()}
}

// Extract processes raw HTML and returns the article in its main content.
// Returns EEXTRACT if trafilatura finds no content region.
func (e *Extractor) Extract(rawHTML string, baseURL string) (*repost.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, repost.Errorf(repost.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
		IncludeImages:  true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, repost.WrapError(repost.EEXTRACT, err, "trafilatura extraction failed")
	}
	if result == nil || result.ContentNode == nil {
		return nil, repost.Errorf(repost.EEXTRACT, "no content region found")
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, repost.WrapError(repost.EEXTRACT, err, "failed to render content")
	}

	return goquery.ArticleFromHTML(result.Metadata.Title, contentHTML, baseURL, e.profile)
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
