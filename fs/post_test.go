package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/repost"
	"github.com/fwojciec/repost/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPost(t *testing.T) {
	t.Parallel()

	t.Run("reads post written by the store", func(t *testing.T) {
		t.Parallel()

		post := &repost.StyledPost{
			TitleCandidates: []string{"标题一", "标题二"},
			Body:            "正文\n标签：#a",
			Tags:            []string{"#a"},
		}
		yamlData, err := fs.MarshalPost(post)
		require.NoError(t, err)

		store := fs.NewStore(t.TempDir())
		_, err = store.Persist(context.Background(), post.Title(), []repost.File{
			{Name: fs.PostTextFile, Data: []byte(fs.FormatPostText(post))},
			{Name: fs.PostYAMLFile, Data: yamlData},
			{Name: fs.ImageName(10, repost.FormatJPEG), Data: []byte{10}},
			{Name: fs.ImageName(2, repost.FormatJPEG), Data: []byte{2}},
			{Name: fs.ImageName(1, repost.FormatJPEG), Data: []byte{1}},
			{Name: "images/notes.txt", Data: []byte("skip")},
		})
		require.NoError(t, err)

		dir := store.Dir(post.Title())
		got, images, err := fs.LoadPost(dir)

		require.NoError(t, err)
		assert.Equal(t, post, got)
		assert.Equal(t, []string{
			filepath.Join(dir, "images", "image_1.jpg"),
			filepath.Join(dir, "images", "image_2.jpg"),
			filepath.Join(dir, "images", "image_10.jpg"),
		}, images)
	})

	t.Run("falls back to post text with title on first line", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, fs.PostTextFile), []byte("✨ Title ✨\n\nline one\nline two\n"), 0o644))

		post, images, err := fs.LoadPost(dir)

		require.NoError(t, err)
		assert.Equal(t, []string{"✨ Title ✨"}, post.TitleCandidates)
		assert.Equal(t, "line one\nline two", post.Body)
		assert.Empty(t, images)
	})

	t.Run("returns not found for empty directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fs.LoadPost(t.TempDir())

		require.Error(t, err)
		assert.Equal(t, repost.ENOTFOUND, repost.ErrorCode(err))
	})

	t.Run("rejects yaml without titles", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, fs.PostYAMLFile), []byte("body: hi\n"), 0o644))

		_, _, err := fs.LoadPost(dir)

		require.Error(t, err)
		assert.Equal(t, repost.EINVALID, repost.ErrorCode(err))
	})
}

func TestFormatPostText(t *testing.T) {
	t.Parallel()

	post := &repost.StyledPost{TitleCandidates: []string{"A", "B"}, Body: "body"}

	assert.Equal(t, "A\n\nbody\n", fs.FormatPostText(post))
}

func TestImageName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "images/image_3.jpg", fs.ImageName(3, repost.FormatJPEG))
}
