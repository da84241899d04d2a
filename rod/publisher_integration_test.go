//go:build integration

package rod_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/repost"
	"github.com/fwojciec/repost/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const publishPage = `<!DOCTYPE html>
<html><body>
<input type="file" multiple>
<input placeholder="标题，添加标题会获得更多赞">
<textarea placeholder="请输入正文"></textarea>
<button onclick="submitPost()">发布</button>
<script>
function submitPost() {
  fetch('/submitted', {method: 'POST', body: JSON.stringify({
    title: document.querySelector('input[placeholder]').value,
    body: document.querySelector('textarea').value,
    files: document.querySelector('input[type=file]').files.length
  })});
}
</script>
</body></html>`

type submission struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Files int    `json:"files"`
}

func TestPublisher_Integration_FillsAndSubmitsForm(t *testing.T) {
	t.Parallel()

	submitted := make(chan submission, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><div>首页</div></body></html>`))
	})
	mux.HandleFunc("/publish", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(publishPage))
	})
	mux.HandleFunc("/submitted", func(w http.ResponseWriter, r *http.Request) {
		var s submission
		_ = json.NewDecoder(r.Body).Decode(&s)
		submitted <- s
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	img := filepath.Join(dir, "image_1.jpg")
	require.NoError(t, os.WriteFile(img, []byte{0xff, 0xd8, 0xff, 0xd9}, 0o644))

	p := rod.NewPublisher(rod.PublisherConfig{
		CookiePath:   filepath.Join(dir, "cookies.json"),
		HomeURL:      srv.URL + "/",
		PublishURL:   srv.URL + "/publish",
		LoginWait:    time.Second,
		PollInterval: 100 * time.Millisecond,
		SettleDelay:  300 * time.Millisecond,
	}, nil)
	p.Launch = func() (*rod.BrowserManager, error) {
		return rod.NewBrowserManager()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := p.Publish(ctx, repost.PublishRequest{
		Title:      "✨ 标题 ✨",
		Body:       "正文内容",
		ImagePaths: []string{img},
	})

	require.NoError(t, err)
	assert.True(t, result.Success)

	select {
	case s := <-submitted:
		assert.Equal(t, "✨ 标题 ✨", s.Title)
		assert.Equal(t, "正文内容", s.Body)
		assert.Equal(t, 1, s.Files)
	case <-ctx.Done():
		t.Fatal("form was not submitted")
	}
}

func TestPublisher_Integration_ReportsLoginTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><div>登录</div></body></html>`))
	}))
	defer srv.Close()

	p := rod.NewPublisher(rod.PublisherConfig{
		CookiePath:   filepath.Join(t.TempDir(), "cookies.json"),
		HomeURL:      srv.URL,
		PublishURL:   srv.URL + "/publish",
		LoginWait:    300 * time.Millisecond,
		PollInterval: 100 * time.Millisecond,
	}, nil)
	p.Launch = func() (*rod.BrowserManager, error) {
		return rod.NewBrowserManager()
	}

	result, err := p.Publish(context.Background(), repost.PublishRequest{Title: "t", Body: "b"})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "login")
}

func TestPublisher_Integration_FailsWhenFormFieldIsMissing(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><div>首页</div></body></html>`))
	})
	mux.HandleFunc("/publish", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><textarea placeholder="请输入正文"></textarea></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := rod.NewPublisher(rod.PublisherConfig{
		CookiePath:   filepath.Join(t.TempDir(), "cookies.json"),
		HomeURL:      srv.URL + "/",
		PublishURL:   srv.URL + "/publish",
		LoginWait:    time.Second,
		PollInterval: 100 * time.Millisecond,
		FormWait:     500 * time.Millisecond,
	}, nil)
	p.Launch = func() (*rod.BrowserManager, error) {
		return rod.NewBrowserManager()
	}

	start := time.Now()
	result, err := p.Publish(context.Background(), repost.PublishRequest{Title: "t", Body: "b"})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, repost.EPUBLISH, repost.ErrorCode(err))
	assert.Contains(t, repost.ErrorMessage(err), "title field")
	assert.Less(t, time.Since(start), 20*time.Second)
}
