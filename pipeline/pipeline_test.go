package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/repost"
	"github.com/fwojciec/repost/mock"
	"github.com/fwojciec/repost/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageURL = "https://mp.weixin.qq.com/s/abc"

// newPipeline returns a pipeline whose collaborators succeed. Images are
// "fetched" as their URL bytes and normalized into themselves.
func newPipeline(imageURLs ...string) *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string, _ map[string]string) (*repost.Response, error) {
				return &repost.Response{URL: url, StatusCode: 200, Body: []byte(url)}, nil
			},
		},
		Extractor: &mock.Extractor{
			ExtractFn: func(string, string) (*repost.Article, error) {
				return &repost.Article{
					Title:       "标题",
					TextBlocks:  []string{"第一段", "第二段"},
					ImageURLs:   imageURLs,
					ContentHTML: "<p>第一段</p>",
				}, nil
			},
		},
		Normalizer: &mock.ImageNormalizer{
			NormalizeFn: func(raw []byte) (*repost.NormalizedImage, error) {
				return &repost.NormalizedImage{Data: raw, Format: repost.FormatJPEG, Quality: 95}, nil
			},
		},
		Transformer: &mock.StyleTransformer{
			TransformFn: func(_ context.Context, req repost.TransformRequest) (*repost.StyledPost, error) {
				return &repost.StyledPost{TitleCandidates: []string{"✨ " + req.Title + " ✨"}, Body: req.Body}, nil
			},
		},
	}
}

func imageData(images []*repost.NormalizedImage) []string {
	var out []string
	for _, img := range images {
		out = append(out, string(img.Data))
	}
	return out
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	t.Run("produces post and images in order", func(t *testing.T) {
		t.Parallel()

		p := newPipeline("https://img/1", "https://img/2", "https://img/3")

		bundle, err := p.Run(context.Background(), pageURL)

		require.NoError(t, err)
		assert.Equal(t, pageURL, bundle.SourceURL)
		assert.Equal(t, "标题", bundle.Article.Title)
		assert.Equal(t, "✨ 标题 ✨", bundle.Post.Title())
		assert.Equal(t, "第一段\n第二段", bundle.Post.Body)
		assert.Equal(t, []string{"https://img/1", "https://img/2", "https://img/3"}, imageData(bundle.Images))
		assert.Empty(t, bundle.Failures)
		assert.NotEmpty(t, bundle.ContentHash)
		assert.Empty(t, bundle.PersistedPaths)
		assert.Nil(t, bundle.Publish)
	})

	t.Run("records failed image and keeps the rest in order", func(t *testing.T) {
		t.Parallel()

		p := newPipeline("https://img/1", "https://img/2", "https://img/3")
		p.Concurrency = 2
		p.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, url string, _ map[string]string) (*repost.Response, error) {
				if url == "https://img/2" {
					return nil, repost.Errorf(repost.EFETCH, "HTTP 404 for %s", url)
				}
				return &repost.Response{URL: url, StatusCode: 200, Body: []byte(url)}, nil
			},
		}
		var mu sync.Mutex
		var events []pipeline.ProgressEvent
		p.Progress = func(e pipeline.ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
		}

		bundle, err := p.Run(context.Background(), pageURL)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://img/1", "https://img/3"}, imageData(bundle.Images))
		require.Len(t, bundle.Failures, 1)
		assert.Equal(t, 1, bundle.Failures[0].Index)
		assert.Equal(t, "https://img/2", bundle.Failures[0].URL)
		assert.Equal(t, repost.EFETCH, repost.ErrorCode(bundle.Failures[0].Err))

		require.NotEmpty(t, events)
		assert.Equal(t, pipeline.ProgressStarted, events[0].Type)
		assert.Equal(t, pipeline.ProgressFinished, events[len(events)-1].Type)
		var failed int
		for _, e := range events {
			if e.Type == pipeline.ProgressFailed {
				failed++
				assert.Equal(t, "https://img/2", e.URL)
			}
		}
		assert.Equal(t, 1, failed)
	})

	t.Run("records undecodable image as failure", func(t *testing.T) {
		t.Parallel()

		p := newPipeline("https://img/1", "https://img/bad")
		p.Normalizer = &mock.ImageNormalizer{
			NormalizeFn: func(raw []byte) (*repost.NormalizedImage, error) {
				if strings.HasSuffix(string(raw), "bad") {
					return nil, repost.Errorf(repost.EDECODE, "unknown format")
				}
				return &repost.NormalizedImage{Data: raw, Format: repost.FormatJPEG}, nil
			},
		}

		bundle, err := p.Run(context.Background(), pageURL)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://img/1"}, imageData(bundle.Images))
		require.Len(t, bundle.Failures, 1)
		assert.Equal(t, repost.EDECODE, repost.ErrorCode(bundle.Failures[0].Err))
	})

	t.Run("bounds image concurrency", func(t *testing.T) {
		t.Parallel()

		var inFlight, peak atomic.Int64
		p := newPipeline("https://img/1", "https://img/2", "https://img/3", "https://img/4", "https://img/5")
		p.Concurrency = 2
		p.Normalizer = &mock.ImageNormalizer{
			NormalizeFn: func(raw []byte) (*repost.NormalizedImage, error) {
				n := inFlight.Add(1)
				defer inFlight.Add(-1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				return &repost.NormalizedImage{Data: raw, Format: repost.FormatJPEG}, nil
			},
		}

		bundle, err := p.Run(context.Background(), pageURL)

		require.NoError(t, err)
		assert.Len(t, bundle.Images, 5)
		assert.LessOrEqual(t, peak.Load(), int64(2))
	})

	t.Run("sends article URL as image referer", func(t *testing.T) {
		t.Parallel()

		var referer string
		p := newPipeline("https://img/1")
		p.ImageFetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, url string, header map[string]string) (*repost.Response, error) {
				referer = header["Referer"]
				return &repost.Response{URL: url, Body: []byte("img")}, nil
			},
		}

		_, err := p.Run(context.Background(), pageURL)

		require.NoError(t, err)
		assert.Equal(t, pageURL, referer)
	})

	t.Run("fails at fetch stage", func(t *testing.T) {
		t.Parallel()

		p := newPipeline()
		p.Fetcher = &mock.Fetcher{
			FetchFn: func(context.Context, string, map[string]string) (*repost.Response, error) {
				return nil, repost.Errorf(repost.EFETCH, "HTTP 500 for %s", pageURL)
			},
		}

		bundle, err := p.Run(context.Background(), pageURL)

		require.Error(t, err)
		assert.Nil(t, bundle)
		var stageErr *repost.StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, repost.StageFetch, stageErr.Stage)
		assert.Equal(t, pageURL, stageErr.URL)
		assert.Equal(t, repost.EFETCH, repost.ErrorCode(err))
	})

	t.Run("retries page fetch", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		p := newPipeline()
		p.RetryDelays = []time.Duration{0, 0}
		p.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, url string, _ map[string]string) (*repost.Response, error) {
				if calls.Add(1) < 3 {
					return nil, repost.Errorf(repost.EFETCH, "connection reset")
				}
				return &repost.Response{URL: url, Body: []byte("<html></html>")}, nil
			},
		}

		_, err := p.Run(context.Background(), pageURL)

		require.NoError(t, err)
		assert.Equal(t, int64(3), calls.Load())
	})

	t.Run("fails at extract stage", func(t *testing.T) {
		t.Parallel()

		p := newPipeline()
		p.Extractor = &mock.Extractor{
			ExtractFn: func(string, string) (*repost.Article, error) {
				return nil, repost.Errorf(repost.EEXTRACT, "no content container")
			},
		}

		_, err := p.Run(context.Background(), pageURL)

		var stageErr *repost.StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, repost.StageExtract, stageErr.Stage)
		assert.Equal(t, repost.EEXTRACT, repost.ErrorCode(err))
	})

	t.Run("fails at transform stage and keeps images", func(t *testing.T) {
		t.Parallel()

		p := newPipeline("https://img/1")
		p.Transformer = &mock.StyleTransformer{
			TransformFn: func(context.Context, repost.TransformRequest) (*repost.StyledPost, error) {
				return nil, repost.Errorf(repost.EPARSE, "missing body marker")
			},
		}

		bundle, err := p.Run(context.Background(), pageURL)

		var stageErr *repost.StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, repost.StageTransform, stageErr.Stage)
		assert.Equal(t, repost.EPARSE, repost.ErrorCode(err))
		require.NotNil(t, bundle)
		assert.Len(t, bundle.Images, 1)
		assert.Nil(t, bundle.Post)
	})

	t.Run("returns partial bundle on cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		p := newPipeline("https://img/1", "https://img/2", "https://img/3")
		p.Concurrency = 1
		p.Normalizer = &mock.ImageNormalizer{
			NormalizeFn: func(raw []byte) (*repost.NormalizedImage, error) {
				cancel()
				return &repost.NormalizedImage{Data: raw, Format: repost.FormatJPEG}, nil
			},
		}
		transformed := false
		p.Transformer = &mock.StyleTransformer{
			TransformFn: func(context.Context, repost.TransformRequest) (*repost.StyledPost, error) {
				transformed = true
				return nil, errors.New("unreachable")
			},
		}

		bundle, err := p.Run(ctx, pageURL)

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		var stageErr *repost.StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, repost.StageImages, stageErr.Stage)
		require.NotNil(t, bundle)
		require.NotEmpty(t, bundle.Images)
		assert.Equal(t, "https://img/1", string(bundle.Images[0].Data))
		assert.False(t, transformed)
	})

	t.Run("persists and publishes", func(t *testing.T) {
		t.Parallel()

		p := newPipeline("https://img/1", "https://img/2")
		p.Converter = &mock.Converter{
			ConvertFn: func(string) (string, error) { return "第一段", nil },
		}
		var persistedTitle string
		var persisted []repost.File
		p.Storage = &mock.Storage{
			PersistFn: func(_ context.Context, title string, files []repost.File) ([]string, error) {
				persistedTitle = title
				persisted = files
				paths := make([]string, len(files))
				for i, f := range files {
					paths[i] = "/out/" + repost.SanitizeTitle(title) + "/" + f.Name
				}
				return paths, nil
			},
		}
		var published repost.PublishRequest
		p.Publisher = &mock.Publisher{
			PublishFn: func(_ context.Context, req repost.PublishRequest) (*repost.PublishResult, error) {
				published = req
				return &repost.PublishResult{Success: true, Message: "published"}, nil
			},
		}

		bundle, err := p.Run(context.Background(), pageURL)

		require.NoError(t, err)
		assert.Equal(t, "标题", persistedTitle)
		var names []string
		for _, f := range persisted {
			names = append(names, f.Name)
		}
		assert.Equal(t, []string{
			"original.txt", "original.md", "post.txt", "post.yaml",
			"images/image_1.jpg", "images/image_2.jpg",
		}, names)
		assert.Equal(t, "/out/✨ 标题 ✨", bundle.Dir)

		assert.Equal(t, "✨ 标题 ✨", published.Title)
		assert.Equal(t, "第一段\n第二段", published.Body)
		assert.Equal(t, []string{
			"/out/✨ 标题 ✨/images/image_1.jpg",
			"/out/✨ 标题 ✨/images/image_2.jpg",
		}, published.ImagePaths)
		require.NotNil(t, bundle.Publish)
		assert.True(t, bundle.Publish.Success)
	})

	t.Run("persists under post title when article has none", func(t *testing.T) {
		t.Parallel()

		p := newPipeline()
		p.Extractor = &mock.Extractor{
			ExtractFn: func(string, string) (*repost.Article, error) {
				return &repost.Article{Title: "  ", TextBlocks: []string{"正文"}}, nil
			},
		}
		p.Transformer = &mock.StyleTransformer{
			TransformFn: func(context.Context, repost.TransformRequest) (*repost.StyledPost, error) {
				return &repost.StyledPost{TitleCandidates: []string{"新标题"}, Body: "正文"}, nil
			},
		}
		var persistedTitle string
		p.Storage = &mock.Storage{
			PersistFn: func(_ context.Context, title string, files []repost.File) ([]string, error) {
				persistedTitle = title
				return []string{"/out/" + title + "/original.txt"}, nil
			},
		}

		_, err := p.Run(context.Background(), pageURL)

		require.NoError(t, err)
		assert.Equal(t, "新标题", persistedTitle)
	})

	t.Run("fails at persist stage", func(t *testing.T) {
		t.Parallel()

		p := newPipeline()
		p.Storage = &mock.Storage{
			PersistFn: func(context.Context, string, []repost.File) ([]string, error) {
				return nil, repost.Errorf(repost.EINVALID, "title is empty after sanitization")
			},
		}

		bundle, err := p.Run(context.Background(), pageURL)

		var stageErr *repost.StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, repost.StagePersist, stageErr.Stage)
		require.NotNil(t, bundle.Post)
	})

	t.Run("fails at publish stage", func(t *testing.T) {
		t.Parallel()

		p := newPipeline()
		p.Publisher = &mock.Publisher{
			PublishFn: func(context.Context, repost.PublishRequest) (*repost.PublishResult, error) {
				return nil, repost.Errorf(repost.EPUBLISH, "upload input not found")
			},
		}

		_, err := p.Run(context.Background(), pageURL)

		var stageErr *repost.StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, repost.StagePublish, stageErr.Stage)
		assert.Equal(t, repost.EPUBLISH, repost.ErrorCode(err))
	})

	t.Run("requires collaborators", func(t *testing.T) {
		t.Parallel()

		_, err := (&pipeline.Pipeline{}).Run(context.Background(), pageURL)

		require.Error(t, err)
		assert.Equal(t, repost.EINVALID, repost.ErrorCode(err))
	})
}

func TestPipeline_Files(t *testing.T) {
	t.Parallel()

	t.Run("omits markdown without converter", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{}
		files, err := p.Files(&repost.Bundle{
			Article: &repost.Article{Title: "T", TextBlocks: []string{"a", "b"}, ContentHTML: "<p>a</p>"},
			Post:    &repost.StyledPost{TitleCandidates: []string{"PT"}, Body: "body"},
			Images:  []*repost.NormalizedImage{{Data: []byte("x"), Format: repost.FormatJPEG}},
		})

		require.NoError(t, err)
		require.Len(t, files, 4)
		assert.Equal(t, "original.txt", files[0].Name)
		assert.Equal(t, "T\n\na\nb\n", string(files[0].Data))
		assert.Equal(t, "post.txt", files[1].Name)
		assert.Equal(t, "PT\n\nbody\n", string(files[1].Data))
		assert.Equal(t, "post.yaml", files[2].Name)
		assert.Contains(t, string(files[2].Data), "titles:")
		assert.Equal(t, "images/image_1.jpg", files[3].Name)
	})

	t.Run("requires article and post", func(t *testing.T) {
		t.Parallel()

		_, err := (&pipeline.Pipeline{}).Files(&repost.Bundle{})

		assert.Equal(t, repost.EINVALID, repost.ErrorCode(err))
	})
}

func TestComputeHash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, pipeline.ComputeHash("abc"), pipeline.ComputeHash("abc"))
	assert.NotEqual(t, pipeline.ComputeHash("abc"), pipeline.ComputeHash("abd"))
	assert.Len(t, pipeline.ComputeHash(""), 16)
}
