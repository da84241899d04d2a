// Package http provides an HTTP-based implementation of repost.Fetcher
// for article pages and images that don't require JavaScript rendering.
package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/repost"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxBodySize caps how much of a response body is read.
const DefaultMaxBodySize = 32 << 20

// DefaultHeader is sent with every request unless overridden per call.
var DefaultHeader = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "zh-CN,zh;q=0.8,zh-TW;q=0.7,zh-HK;q=0.5,en-US;q=0.3,en;q=0.2",
	"Upgrade-Insecure-Requests": "1",
}

// Ensure Fetcher implements repost.Fetcher at compile time.
var _ repost.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves URLs using plain HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	maxBodySize int64
	limiter     *HostLimiter
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBodySize caps the body size. Larger bodies fail with EFETCH.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithRateLimit limits requests to rps per host.
func WithRateLimit(rps float64, burst int) Option {
	return func(f *Fetcher) {
		f.limiter = NewHostLimiter(rps, burst)
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves rawURL. HTML and other text bodies are transcoded to UTF-8;
// anything else is returned as is.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, header map[string]string) (*repost.Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, repost.Errorf(repost.EINVALID, "invalid URL %q", rawURL)
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, u.Host); err != nil {
			return nil, repost.WrapError(repost.EFETCH, err, "rate limit wait for %s", u.Host)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, repost.WrapError(repost.EINVALID, err, "build request for %s", rawURL)
	}
	for k, v := range DefaultHeader {
		req.Header.Set(k, v)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, repost.WrapError(repost.EFETCH, err, "timed out fetching %s", rawURL)
		}
		return nil, repost.WrapError(repost.EFETCH, err, "fetch %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, repost.Errorf(repost.EFETCH, "HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, repost.WrapError(repost.EFETCH, err, "read body of %s", rawURL)
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, repost.Errorf(repost.EFETCH, "body of %s exceeds %d bytes", rawURL, f.maxBodySize)
	}

	contentType := resp.Header.Get("Content-Type")
	out := &repost.Response{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		Body:        body,
		ContentType: contentType,
	}

	if isText(contentType, body) {
		decoded, name, err := ToUTF8(body, contentType)
		if err != nil {
			return nil, repost.WrapError(repost.EFETCH, err, "decode %s", rawURL)
		}
		out.Body = decoded
		out.Encoding = name
	}

	return out, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// ToUTF8 detects the encoding of body from its BOM, the Content-Type header
// and any <meta> charset declaration, and returns the body as UTF-8 along
// with the detected encoding name.
func ToUTF8(body []byte, contentType string) ([]byte, string, error) {
	enc, name, _ := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" {
		return body, name, nil
	}
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(body), enc.NewDecoder()))
	if err != nil {
		return nil, name, err
	}
	return decoded, name, nil
}

// isText reports whether a body should be transcoded. A missing
// Content-Type is sniffed.
func isText(contentType string, body []byte) bool {
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	ct := strings.ToLower(contentType)
	if strings.HasPrefix(ct, "image/") {
		return false
	}
	return strings.HasPrefix(ct, "text/") || strings.Contains(ct, "html") || strings.Contains(ct, "xml")
}
