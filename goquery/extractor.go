package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/repost"
)

// Ensure Extractor implements repost.Extractor at compile time.
var _ repost.Extractor = (*Extractor)(nil)

// Extractor extracts articles with CSS selectors from a Profile.
type Extractor struct {
	profile Profile
}

// NewExtractor creates a new Extractor for the given profile.
func NewExtractor(profile Profile) *Extractor {
	return &Extractor{profile: profile}
}

// Profile returns the extractor's profile.
func (e *Extractor) Profile() Profile {
	return e.profile
}

// Extract parses html and returns the article found in the profile's
// content container. Returns EEXTRACT if the container is missing.
func (e *Extractor) Extract(html string, baseURL string) (*repost.Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, repost.WrapError(repost.EEXTRACT, err, "failed to parse HTML")
	}

	container := doc.Find(e.profile.Container).First()
	if container.Length() == 0 {
		return nil, repost.Errorf(repost.EEXTRACT, "content container %q not found", e.profile.Container)
	}

	article, err := walk(container, e.profile, baseURL)
	if err != nil {
		return nil, err
	}

	if e.profile.Title != "" {
		article.Title = strings.TrimSpace(doc.Find(e.profile.Title).First().Text())
	}

	return article, nil
}

// ArticleFromHTML walks an already isolated content fragment with the
// profile's text and image rules. Extractors that locate the content region
// by other means use it so that every strategy shares the same dedup rules.
func ArticleFromHTML(title, contentHTML, baseURL string, profile Profile) (*repost.Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contentHTML))
	if err != nil {
		return nil, repost.WrapError(repost.EEXTRACT, err, "failed to parse content HTML")
	}

	article, err := walk(doc.Find("body").First(), profile, baseURL)
	if err != nil {
		return nil, err
	}
	article.Title = strings.TrimSpace(title)
	return article, nil
}

// walk collects text blocks and image URLs from container in document order.
func walk(container *goquery.Selection, profile Profile, baseURL string) (*repost.Article, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, repost.Errorf(repost.EINVALID, "invalid base URL: %v", err)
	}

	texts := repost.NewOrderedSet()
	container.Find(profile.Text).Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if hasAnyPrefix(text, profile.SkipPrefixes) {
			return
		}
		texts.Add(text)
	})

	images := repost.NewOrderedSet()
	container.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src := imageSource(sel, profile.ImageAttrs)
		if src == "" || isDataURI(src) {
			return
		}
		if resolved := resolveURL(base, src); resolved != "" {
			images.Add(resolved)
		}
	})

	contentHTML, err := goquery.OuterHtml(container)
	if err != nil {
		return nil, repost.WrapError(repost.EEXTRACT, err, "failed to render content container")
	}

	return &repost.Article{
		TextBlocks:  texts.Values(),
		ImageURLs:   images.Values(),
		ContentHTML: contentHTML,
	}, nil
}

// imageSource returns the first non-empty attribute from attrs.
func imageSource(sel *goquery.Selection, attrs []string) string {
	for _, attr := range attrs {
		if v, ok := sel.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// resolveURL resolves a possibly relative URL against a base URL.
// Returns empty string if the reference cannot be parsed.
func resolveURL(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

// isDataURI checks if an image source is an inline data: URI.
func isDataURI(src string) bool {
	return strings.HasPrefix(strings.ToLower(src), "data:")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
