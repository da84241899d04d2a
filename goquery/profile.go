package goquery

// Profile tells an Extractor where the article lives in a page template.
type Profile struct {
	// Name identifies the profile (e.g., "wechat", "page").
	Name string

	// Container selects the content container. The first match is used.
	Container string

	// Title selects the title element. The first match is used;
	// a missing title yields an empty string.
	Title string

	// Text selects the paragraph-like and inline elements whose text
	// becomes the article's text blocks.
	Text string

	// ImageAttrs lists image source attributes in order of preference.
	ImageAttrs []string

	// SkipPrefixes drops text blocks that start with any of these
	// boilerplate markers.
	SkipPrefixes []string
}

// WeChatProfile extracts WeChat official account articles.
// Images are lazy-loaded, so data-src is preferred over src. Older and
// mirrored templates carry only the rich_media_content class.
func WeChatProfile() Profile {
	return Profile{
		Name:       "wechat",
		Container:  "#js_content, .rich_media_content",
		Title:      ".rich_media_title, #activity-name",
		Text:       "p, span",
		ImageAttrs: []string{"data-src", "src"},
	}
}

// PageProfile extracts generic product and landing pages.
func PageProfile() Profile {
	return Profile{
		Name:         "page",
		Container:    "body",
		Title:        "h1",
		Text:         "p, h1, h2, h3, h4, h5, h6",
		ImageAttrs:   []string{"src", "data-src"},
		SkipPrefixes: []string{"Copyright", "联系方式"},
	}
}
