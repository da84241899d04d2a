// Package pipeline orchestrates a repost run: it fetches an article,
// extracts it, downloads and normalizes its images, restyles the text and
// hands the result to storage and a publisher.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/repost"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of images processed at once.
const DefaultConcurrency = 4

// Pipeline wires the collaborators of a run. Fetcher, Extractor,
// Normalizer and Transformer are required; the rest are optional.
type Pipeline struct {
	Fetcher repost.Fetcher
	// ImageFetcher downloads images. Nil means Fetcher.
	ImageFetcher repost.Fetcher
	Extractor    repost.Extractor
	Normalizer   repost.ImageNormalizer
	Transformer  repost.StyleTransformer

	// Storage persists the bundle when set.
	Storage repost.Storage
	// Publisher publishes the persisted bundle when set.
	Publisher repost.Publisher
	// Converter adds a markdown copy of the article when set.
	Converter repost.Converter

	Concurrency int
	// RetryDelays are the waits between fetch attempts. Nil means a
	// single attempt.
	RetryDelays []time.Duration

	Logger   *slog.Logger
	Progress ProgressFunc
}

// ProgressEvent reports progress of the image stage.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Index     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting image progress.
type ProgressFunc func(event ProgressEvent)

type imageResult struct {
	index int
	url   string
	image *repost.NormalizedImage
	err   error
}

// Run executes the pipeline for url.
//
// Image failures are recorded in Bundle.Failures and never fail the run.
// Other failures are returned as *repost.StageError. If ctx is cancelled
// during the image stage, the bundle built so far is returned with the
// error.
func (p *Pipeline) Run(ctx context.Context, url string) (*repost.Bundle, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	bundle := &repost.Bundle{SourceURL: url}

	resp, err := fetchWithRetry(ctx, p.Fetcher, url, nil, p.RetryDelays)
	if err != nil {
		return nil, stageError(repost.StageFetch, url, err)
	}
	baseURL := resp.URL
	if baseURL == "" {
		baseURL = url
	}

	article, err := p.Extractor.Extract(string(resp.Body), baseURL)
	if err != nil {
		return nil, stageError(repost.StageExtract, url, err)
	}
	bundle.Article = article
	bundle.ContentHash = ComputeHash(article.Title + "\n" + article.Text())

	bundle.Images, bundle.Failures = p.processImages(ctx, baseURL, article.ImageURLs)
	if err := ctx.Err(); err != nil {
		return bundle, stageError(repost.StageImages, url, err)
	}

	post, err := p.Transformer.Transform(ctx, repost.TransformRequest{
		Title: article.Title,
		Body:  article.Text(),
	})
	if err != nil {
		return bundle, stageError(repost.StageTransform, url, err)
	}
	if err := post.Validate(); err != nil {
		return bundle, stageError(repost.StageTransform, url, err)
	}
	bundle.Post = post

	if p.Storage != nil {
		files, err := p.Files(bundle)
		if err != nil {
			return bundle, stageError(repost.StagePersist, url, err)
		}
		paths, err := p.Storage.Persist(ctx, dirTitle(article, post), files)
		if err != nil {
			return bundle, stageError(repost.StagePersist, url, err)
		}
		bundle.PersistedPaths = paths
		if len(paths) > 0 {
			bundle.Dir = filepath.Dir(paths[0])
		}
	}

	if p.Publisher != nil {
		result, err := p.Publisher.Publish(ctx, repost.PublishRequest{
			Title:      post.Title(),
			Body:       post.Body,
			ImagePaths: bundle.ImagePaths(),
		})
		if err != nil {
			return bundle, stageError(repost.StagePublish, url, err)
		}
		bundle.Publish = result
	}

	return bundle, nil
}

func (p *Pipeline) validate() error {
	switch {
	case p.Fetcher == nil:
		return repost.Errorf(repost.EINVALID, "pipeline fetcher required")
	case p.Extractor == nil:
		return repost.Errorf(repost.EINVALID, "pipeline extractor required")
	case p.Normalizer == nil:
		return repost.Errorf(repost.EINVALID, "pipeline normalizer required")
	case p.Transformer == nil:
		return repost.Errorf(repost.EINVALID, "pipeline transformer required")
	}
	return nil
}

// processImages fetches and normalizes urls on a bounded worker pool.
// Images are returned in the order of urls; failed ones are skipped and
// reported as failures.
func (p *Pipeline) processImages(ctx context.Context, referer string, urls []string) ([]*repost.NormalizedImage, []repost.ImageFailure) {
	if len(urls) == 0 {
		return nil, nil
	}

	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	fetcher := p.ImageFetcher
	if fetcher == nil {
		fetcher = p.Fetcher
	}
	header := map[string]string{"Referer": referer}

	total := len(urls)
	p.progress(ProgressEvent{Type: ProgressStarted, Total: total})

	resultCh := make(chan imageResult, total)

	var g errgroup.Group
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				resultCh <- p.processImage(ctx, fetcher, i, u, header)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Slots keep the original order regardless of completion order.
	slots := make([]*imageResult, total)
	completed := 0
	for result := range resultCh {
		completed++
		slots[result.index] = &result

		if result.err != nil {
			p.logger().Warn("image skipped",
				"index", result.index,
				"url", result.url,
				"err", result.err,
			)
			p.progress(ProgressEvent{
				Type:      ProgressFailed,
				Completed: completed,
				Total:     total,
				Index:     result.index,
				URL:       result.url,
				Error:     result.err,
			})
			continue
		}
		p.progress(ProgressEvent{
			Type:      ProgressCompleted,
			Completed: completed,
			Total:     total,
			Index:     result.index,
			URL:       result.url,
		})
	}

	var images []*repost.NormalizedImage
	var failures []repost.ImageFailure
	for _, slot := range slots {
		if slot == nil {
			continue
		}
		if slot.err != nil {
			failures = append(failures, repost.ImageFailure{Index: slot.index, URL: slot.url, Err: slot.err})
			continue
		}
		images = append(images, slot.image)
	}

	p.progress(ProgressEvent{Type: ProgressFinished, Completed: completed, Total: total})
	return images, failures
}

func (p *Pipeline) processImage(ctx context.Context, fetcher repost.Fetcher, index int, url string, header map[string]string) imageResult {
	result := imageResult{index: index, url: url}
	if err := ctx.Err(); err != nil {
		result.err = err
		return result
	}

	resp, err := fetchWithRetry(ctx, fetcher, url, header, p.RetryDelays)
	if err != nil {
		result.err = err
		return result
	}
	img, err := p.Normalizer.Normalize(resp.Body)
	if err != nil {
		result.err = err
		return result
	}
	result.image = img
	return result
}

func (p *Pipeline) progress(event ProgressEvent) {
	if p.Progress != nil {
		p.Progress(event)
	}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// dirTitle returns the title a run is stored under: the scraped article
// title, or the post title when the article title is blank.
func dirTitle(article *repost.Article, post *repost.StyledPost) string {
	if repost.SanitizeTitle(article.Title) != "" {
		return article.Title
	}
	return post.Title()
}

func stageError(stage, url string, err error) error {
	return &repost.StageError{Stage: stage, URL: url, Err: err}
}

// ComputeHash computes a hash of the content using xxhash.
func ComputeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}
