package pipeline

import (
	"context"
	"time"

	"github.com/fwojciec/repost"
)

// fetchWithRetry fetches url, waiting delays[i] before attempt i+2.
// Only EFETCH failures are retried.
func fetchWithRetry(ctx context.Context, fetcher repost.Fetcher, url string, header map[string]string, delays []time.Duration) (*repost.Response, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := fetcher.Fetch(ctx, url, header)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || repost.ErrorCode(err) != repost.EFETCH {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
