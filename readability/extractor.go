// Package readability locates article content with go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/repost"
	"github.com/fwojciec/repost/goquery"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements repost.Extractor at compile time.
var _ repost.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to find the main content region, then
// walks it with the page profile's text and image rules.
type Extractor struct {
	profile goquery.Profile
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{profile: goquery.PageProfile()}
}

// Extract processes raw HTML and returns the article in its main content.
// Returns EEXTRACT if readability finds no content region.
func (e *Extractor) Extract(rawHTML string, baseURL string) (*repost.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, repost.Errorf(repost.EINVALID, "empty HTML input")
	}

	pageURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, repost.Errorf(repost.EINVALID, "invalid base URL: %v", err)
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		return nil, repost.WrapError(repost.EEXTRACT, err, "readability extraction failed")
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, repost.Errorf(repost.EEXTRACT, "no content region found")
	}

	return goquery.ArticleFromHTML(article.Title, article.Content, baseURL, e.profile)
}
