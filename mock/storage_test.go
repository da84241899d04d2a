package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/repost"
	"github.com/fwojciec/repost/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_Persist(t *testing.T) {
	t.Parallel()

	t.Run("delegates to PersistFn", func(t *testing.T) {
		t.Parallel()

		var gotTitle string
		var gotFiles []repost.File
		s := &mock.Storage{
			PersistFn: func(_ context.Context, title string, files []repost.File) ([]string, error) {
				gotTitle = title
				gotFiles = files
				return []string{"out/Hello/post.txt"}, nil
			},
		}

		files := []repost.File{{Name: "post.txt", Data: []byte("hi")}}
		paths, err := s.Persist(context.Background(), "Hello", files)

		require.NoError(t, err)
		assert.Equal(t, "Hello", gotTitle)
		assert.Equal(t, files, gotFiles)
		assert.Equal(t, []string{"out/Hello/post.txt"}, paths)
	})
}
