package goquery_test

import (
	"testing"

	"github.com/fwojciec/repost/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "wechat by og:url",
			html: `<html><head><meta property="og:url" content="http://mp.weixin.qq.com/s?__biz=abc"></head><body></body></html>`,
			want: "wechat",
		},
		{
			name: "wechat by content container",
			html: `<html><body><div id="js_content"><p>x</p></div></body></html>`,
			want: "wechat",
		},
		{
			name: "wechat by rich media classes",
			html: `<html><body><h1 class="rich_media_title">t</h1><div class="rich_media_content">x</div></body></html>`,
			want: "wechat",
		},
		{
			name: "wechat by og:url with rich media content",
			html: `<html><head><meta property="og:url" content="https://mp.weixin.qq.com/s/abc"></head><body><div class="rich_media_content"><p>x</p></div></body></html>`,
			want: "wechat",
		},
		{
			name: "page when wechat og:url has no content container",
			html: `<html><head><meta property="og:url" content="https://mp.weixin.qq.com/s/abc"></head><body><h1>T</h1><p>A</p></body></html>`,
			want: "page",
		},
		{
			name: "page when rich media content lacks a title",
			html: `<html><body><h1>T</h1><div class="rich_media_content"><p>A</p></div></body></html>`,
			want: "page",
		},
		{
			name: "page otherwise",
			html: `<html><body><h1>Landing</h1><p>x</p></body></html>`,
			want: "page",
		},
	}

	detector := goquery.NewDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, detector.Detect(tt.html).Name)
		})
	}
}

func TestAutoExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("uses wechat profile for wechat pages", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<h1>Site header</h1>
<h2 class="rich_media_title">Article</h2>
<div id="js_content"><p>body</p></div>
</body></html>`

		article, err := goquery.NewAutoExtractor().Extract(html, "https://mp.weixin.qq.com/s/abc")

		require.NoError(t, err)
		assert.Equal(t, "Article", article.Title)
		assert.Equal(t, []string{"body"}, article.TextBlocks)
	})

	t.Run("extracts wechat pages without js_content", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><meta property="og:url" content="https://mp.weixin.qq.com/s/abc"></head><body>
<h1 class="rich_media_title">T</h1>
<div class="rich_media_content"><p>A</p><img data-src="/a.jpg"></div>
</body></html>`

		article, err := goquery.NewAutoExtractor().Extract(html, "https://mp.weixin.qq.com/s/abc")

		require.NoError(t, err)
		assert.Equal(t, "T", article.Title)
		assert.Equal(t, []string{"A"}, article.TextBlocks)
		assert.Equal(t, []string{"https://mp.weixin.qq.com/a.jpg"}, article.ImageURLs)
	})

	t.Run("falls back to page profile for wechat url without container", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><meta property="og:url" content="https://mp.weixin.qq.com/s/abc"></head><body><h1>T</h1><p>A</p></body></html>`

		article, err := goquery.NewAutoExtractor().Extract(html, "https://mp.weixin.qq.com/s/abc")

		require.NoError(t, err)
		assert.Equal(t, "T", article.Title)
		assert.Equal(t, []string{"T", "A"}, article.TextBlocks)
	})

	t.Run("uses page profile otherwise", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>Landing</h1><p>body</p></body></html>`

		article, err := goquery.NewAutoExtractor().Extract(html, "https://example.com/")

		require.NoError(t, err)
		assert.Equal(t, "Landing", article.Title)
		assert.Equal(t, []string{"Landing", "body"}, article.TextBlocks)
	})

	t.Run("empty document yields empty page article", func(t *testing.T) {
		t.Parallel()

		article, err := goquery.NewAutoExtractor().Extract("", "https://example.com/")

		require.NoError(t, err)
		assert.Empty(t, article.Title)
		assert.Empty(t, article.TextBlocks)
		assert.Empty(t, article.ImageURLs)
	})
}
