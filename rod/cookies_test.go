package rod_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/repost"
	"github.com/fwojciec/repost/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookies(t *testing.T) {
	t.Parallel()

	t.Run("returns not found for missing file", func(t *testing.T) {
		t.Parallel()

		_, err := rod.LoadCookies(filepath.Join(t.TempDir(), "missing.json"))

		require.Error(t, err)
		assert.Equal(t, repost.ENOTFOUND, repost.ErrorCode(err))
	})

	t.Run("returns invalid for malformed file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "cookies.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		_, err := rod.LoadCookies(path)

		require.Error(t, err)
		assert.Equal(t, repost.EINVALID, repost.ErrorCode(err))
	})

	t.Run("reads cookies saved by a browser session", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "cookies.json")
		saved := []*proto.NetworkCookie{
			{Name: "web_session", Value: "abc", Domain: ".xiaohongshu.com", Path: "/", HTTPOnly: true, Secure: true},
			{Name: "a1", Value: "xyz", Domain: ".xiaohongshu.com", Path: "/"},
		}
		require.NoError(t, rod.SaveCookies(path, saved))

		params, err := rod.LoadCookies(path)

		require.NoError(t, err)
		require.Len(t, params, 2)
		assert.Equal(t, "web_session", params[0].Name)
		assert.Equal(t, "abc", params[0].Value)
		assert.Equal(t, ".xiaohongshu.com", params[0].Domain)
		assert.True(t, params[0].HTTPOnly)
		assert.Equal(t, "a1", params[1].Name)
	})

	t.Run("reads selenium style cookie files", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".cookies.json")
		data := `[{"name": "web_session", "value": "abc", "domain": ".xiaohongshu.com", "path": "/", "secure": true, "httpOnly": true}]`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		params, err := rod.LoadCookies(path)

		require.NoError(t, err)
		require.Len(t, params, 1)
		assert.Equal(t, "web_session", params[0].Name)
		assert.True(t, params[0].Secure)
	})
}

func TestSaveCookies_ReplacesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, rod.SaveCookies(path, []*proto.NetworkCookie{{Name: "old", Value: "1"}}))
	require.NoError(t, rod.SaveCookies(path, []*proto.NetworkCookie{{Name: "new", Value: "2"}}))

	params, err := rod.LoadCookies(path)

	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "new", params[0].Name)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
