package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/repost"
)

// Detector identifies the page template of an article from its HTML.
// It checks for template-specific ids, classes and meta tags.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the profile that fits the page.
// A template is only chosen when its content container is present;
// otherwise Detect falls back to PageProfile.
func (d *Detector) Detect(html string) Profile {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return PageProfile()
	}

	wechat := WeChatProfile()
	if !d.hasSelector(doc, wechat.Container) {
		return PageProfile()
	}

	// Check meta tags first - most reliable when present
	if d.isWeChatURL(doc) {
		return wechat
	}

	if d.hasSelector(doc, "#js_content") ||
		d.hasSelector(doc, ".rich_media_content") && d.hasSelector(doc, ".rich_media_title") {
		return wechat
	}

	return PageProfile()
}

// isWeChatURL checks the og:url meta tag for the WeChat article host.
func (d *Detector) isWeChatURL(doc *goquery.Document) bool {
	content, _ := doc.Find("meta[property='og:url']").First().Attr("content")
	return strings.Contains(strings.ToLower(content), "mp.weixin.qq.com")
}

// hasSelector checks if the document contains at least one element matching the selector.
func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}

// Ensure AutoExtractor implements repost.Extractor at compile time.
var _ repost.Extractor = (*AutoExtractor)(nil)

// AutoExtractor detects the page template and extracts with its profile.
type AutoExtractor struct {
	detector *Detector
}

// NewAutoExtractor creates a new AutoExtractor.
func NewAutoExtractor() *AutoExtractor {
	return &AutoExtractor{detector: NewDetector()}
}

// Extract detects the profile for html and delegates to an Extractor.
func (e *AutoExtractor) Extract(html string, baseURL string) (*repost.Article, error) {
	return NewExtractor(e.detector.Detect(html)).Extract(html, baseURL)
}
