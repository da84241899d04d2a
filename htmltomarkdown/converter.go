// Package htmltomarkdown renders an article's content container as Markdown
// for the original.md archive copy.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/repost"
)

// Ensure Converter implements repost.Converter at compile time.
var _ repost.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv   *converter.Converter
	domain string
}

// Option configures a Converter.
type Option func(*Converter)

// WithDomain resolves relative links and image sources against domain.
func WithDomain(domain string) Option {
	return func(c *Converter) {
		c.domain = domain
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms HTML content into Markdown. Lazy-loaded images that
// only carry data-src are given a src first so they survive conversion.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", repost.Errorf(repost.EINVALID, "empty HTML input")
	}

	html, err := promoteLazyImages(html)
	if err != nil {
		return "", err
	}

	var opts []converter.ConvertOptionFunc
	if c.domain != "" {
		opts = append(opts, converter.WithDomain(c.domain))
	}

	result, err := c.conv.ConvertString(html, opts...)
	if err != nil {
		return "", repost.WrapError(repost.EINTERNAL, err, "convert HTML to Markdown")
	}

	return strings.TrimSpace(result), nil
}

// promoteLazyImages copies data-src into src where src is missing or an
// inline placeholder.
func promoteLazyImages(html string) (string, error) {
	if !strings.Contains(html, "data-src") {
		return html, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", repost.WrapError(repost.EINVALID, err, "parse HTML")
	}

	doc.Find("img[data-src]").Each(func(_ int, img *goquery.Selection) {
		src := strings.TrimSpace(img.AttrOr("src", ""))
		if src == "" || strings.HasPrefix(src, "data:") {
			img.SetAttr("src", img.AttrOr("data-src", ""))
		}
	})

	return doc.Find("body").Html()
}
