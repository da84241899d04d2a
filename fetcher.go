package repost

import "context"

// Response is the result of fetching a URL.
type Response struct {
	URL         string
	StatusCode  int
	Body        []byte
	ContentType string

	// Encoding is the character encoding the body was decoded from.
	// HTML bodies are always returned as UTF-8.
	Encoding string
}

// Fetcher retrieves the content of URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves url, adding header to the request.
	// Returns EFETCH on transport failure, timeout or a non-2xx status.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string, header map[string]string) (*Response, error)

	// Close releases resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
