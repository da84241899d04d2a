package repost

import "strings"

// Article is the normalized content extracted from an article page.
// TextBlocks and ImageURLs hold each distinct trimmed value once,
// in reading order.
type Article struct {
	Title      string
	TextBlocks []string
	ImageURLs  []string

	// ContentHTML is the outer HTML of the content container.
	ContentHTML string
}

// Text joins the text blocks with line breaks.
func (a *Article) Text() string {
	return strings.Join(a.TextBlocks, "\n")
}

// Extractor extracts article content from an HTML document.
type Extractor interface {
	// Extract parses html and returns the article it contains.
	// Relative image URLs are resolved against baseURL.
	// Returns EEXTRACT if no content container is found.
	Extract(html string, baseURL string) (*Article, error)
}
