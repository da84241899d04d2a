package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/repost"
	"github.com/fwojciec/repost/fs"
	"github.com/fwojciec/repost/gemini"
	"github.com/fwojciec/repost/goquery"
	"github.com/fwojciec/repost/htmltomarkdown"
	repohttp "github.com/fwojciec/repost/http"
	"github.com/fwojciec/repost/imaging"
	"github.com/fwojciec/repost/openai"
	"github.com/fwojciec/repost/pipeline"
	"github.com/fwojciec/repost/readability"
	"github.com/fwojciec/repost/rod"
	reposlog "github.com/fwojciec/repost/slog"
	"github.com/fwojciec/repost/style"
	"github.com/fwojciec/repost/trafilatura"
	"google.golang.org/genai"
)

// newPipeline builds a pipeline from flags. The returned function releases
// the fetchers.
func newPipeline(ctx context.Context, f *PipelineFlags, out string, logger *slog.Logger) (*pipeline.Pipeline, func() error, error) {
	extractor, err := newExtractor(f.Extractor)
	if err != nil {
		return nil, nil, err
	}
	transformer, err := newTransformer(ctx, f, logger)
	if err != nil {
		return nil, nil, err
	}

	httpFetcher := reposlog.NewLoggingFetcher(
		repohttp.NewFetcher(
			repohttp.WithTimeout(f.Timeout),
			repohttp.WithRateLimit(f.RateLimit, max(1, f.Concurrency)),
		),
		logger,
	)
	closers := []func() error{httpFetcher.Close}
	var pageFetcher repost.Fetcher = httpFetcher
	if f.Render {
		rodFetcher, err := rod.NewFetcher(rod.WithFetchTimeout(f.Timeout))
		if err != nil {
			return nil, nil, repost.WrapError(repost.EINTERNAL, err, "failed to start browser, Chrome or Chromium must be installed")
		}
		pageFetcher = reposlog.NewLoggingFetcher(rodFetcher, logger)
		closers = append(closers, pageFetcher.Close)
	}

	p := &pipeline.Pipeline{
		Fetcher:      pageFetcher,
		ImageFetcher: httpFetcher,
		Extractor:    reposlog.NewLoggingExtractor(extractor, logger),
		Normalizer:   imaging.NewNormalizer(imaging.Config{Quality: f.Quality, Enhance: f.Enhance}),
		Transformer:  reposlog.NewLoggingTransformer(transformer, f.Style, logger),
		Storage:      fs.NewStore(out),
		Converter:    htmltomarkdown.NewConverter(),
		Concurrency:  f.Concurrency,
		RetryDelays:  retryDelays(f.Retries),
		Logger:       logger,
	}

	closeFn := func() error {
		var err error
		for _, c := range closers {
			if cerr := c(); err == nil {
				err = cerr
			}
		}
		return err
	}
	return p, closeFn, nil
}

func newExtractor(name string) (repost.Extractor, error) {
	switch name {
	case "", "auto":
		return goquery.NewAutoExtractor(), nil
	case "wechat":
		return goquery.NewExtractor(goquery.WeChatProfile()), nil
	case "page":
		return goquery.NewExtractor(goquery.PageProfile()), nil
	case "trafilatura":
		return trafilatura.NewExtractor(), nil
	case "readability":
		return readability.NewExtractor(), nil
	default:
		return nil, repost.Errorf(repost.EINVALID, "extractor %q not recognized", name)
	}
}

func newTransformer(ctx context.Context, f *PipelineFlags, logger *slog.Logger) (repost.StyleTransformer, error) {
	switch f.Style {
	case "", "rule":
		return style.NewRuleTransformer(), nil
	case "llm":
		gen, err := newGenerator(ctx, &f.LLMFlags)
		if err != nil {
			return nil, err
		}
		return &style.LLMTransformer{
			Generator:   reposlog.NewLoggingGenerator(gen, logger),
			Temperature: f.Temperature,
			Timeout:     f.LLMTimeout,
			Logger:      logger,
		}, nil
	default:
		return nil, repost.Errorf(repost.EINVALID, "style %q not recognized", f.Style)
	}
}

func newGenerator(ctx context.Context, f *LLMFlags) (repost.TextGenerator, error) {
	switch f.Provider {
	case "", "openai":
		return openai.NewGenerator(openai.Config{
			APIKey:     f.APIKey,
			AuthScheme: f.AuthScheme,
			ModelID:    f.Model,
			Endpoint:   f.Endpoint,
		})
	case "gemini":
		if f.APIKey == "" {
			return nil, repost.Errorf(repost.EINVALID, "API key required, get one at https://aistudio.google.com/apikey")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  f.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, repost.WrapError(repost.EINVALID, err, "failed to connect to Gemini API")
		}
		return gemini.NewGenerator(client, f.Model), nil
	default:
		return nil, repost.Errorf(repost.EINVALID, "provider %q not recognized", f.Provider)
	}
}

func newPublisher(f *PublishFlags, logger *slog.Logger) repost.Publisher {
	cfg := rod.DefaultPublisherConfig()
	if f.Cookies != "" {
		cfg.CookiePath = f.Cookies
	}
	if f.LoginWait > 0 {
		cfg.LoginWait = f.LoginWait
	}
	p := rod.NewPublisher(cfg, logger)
	headless := f.Headless
	p.Launch = func() (*rod.BrowserManager, error) {
		return rod.NewBrowserManager(rod.WithHeadless(headless))
	}
	return reposlog.NewLoggingPublisher(p, logger)
}

// retryDelays returns n exponential backoff delays starting at one second.
func retryDelays(n int) []time.Duration {
	var delays []time.Duration
	d := time.Second
	for range n {
		delays = append(delays, d)
		d *= 2
	}
	return delays
}
