package repost

import (
	"path/filepath"
	"strings"
)

// ImageFailure records an image that was skipped during a run.
type ImageFailure struct {
	Index int
	URL   string
	Err   error
}

// Bundle is everything a pipeline run produced.
type Bundle struct {
	SourceURL   string
	ContentHash string
	Article     *Article
	Post        *StyledPost
	Images      []*NormalizedImage

	// Dir and PersistedPaths are set when the run was persisted.
	Dir            string
	PersistedPaths []string

	// Failures lists images that could not be fetched or normalized.
	Failures []ImageFailure

	// Publish is set when the run was handed to a Publisher.
	Publish *PublishResult
}

// ImagePaths returns the persisted paths of the normalized images.
func (b *Bundle) ImagePaths() []string {
	var paths []string
	for _, p := range b.PersistedPaths {
		if IsImagePath(p) {
			paths = append(paths, p)
		}
	}
	return paths
}

// IsImagePath reports whether p names a .jpg, .jpeg or .png file.
func IsImagePath(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}
