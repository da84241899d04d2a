package repost

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be the content container of an Article.
	Convert(html string) (string, error)
}
