package rod

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/repost"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements repost.Fetcher at compile time.
var _ repost.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Use it for article pages whose content is built by JavaScript.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout sets the per-fetch timeout.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager()
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to url and returns the rendered HTML as UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, url string, header map[string]string) (*repost.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := f.manager.Browser()
	if err != nil {
		return nil, repost.Errorf(repost.EINVALID, "fetcher closed")
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, repost.WrapError(repost.EFETCH, err, "open page for %s", url)
	}
	defer page.Close()
	defer f.manager.IncrementPageCount()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	page = page.Context(ctx)

	if len(header) > 0 {
		dict := make([]string, 0, len(header)*2)
		for k, v := range header {
			dict = append(dict, k, v)
		}
		cleanup, err := page.SetExtraHeaders(dict)
		if err != nil {
			return nil, repost.WrapError(repost.EFETCH, err, "set headers for %s", url)
		}
		defer cleanup()
	}

	if err := page.Navigate(url); err != nil {
		return nil, fetchError(err, url)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fetchError(err, url)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fetchError(err, url)
	}

	finalURL := url
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	return &repost.Response{
		URL:         finalURL,
		StatusCode:  200,
		Body:        []byte(html),
		ContentType: "text/html; charset=utf-8",
		Encoding:    "utf-8",
	}, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

func fetchError(err error, url string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return repost.WrapError(repost.EFETCH, err, "timed out rendering %s", url)
	}
	return repost.WrapError(repost.EFETCH, err, "render %s", url)
}
