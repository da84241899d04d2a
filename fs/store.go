// Package fs provides file-based storage for converted posts.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/repost"
)

// Ensure Store implements repost.Storage at compile time.
var _ repost.Storage = (*Store)(nil)

// Store writes each run into its own directory under baseDir, named after
// the sanitized article title. Files are written to a temporary directory
// first and moved into place once all of them are on disk, so a directory
// is never observed half-written. An existing directory for the same title
// is replaced.
type Store struct {
	baseDir string
}

// NewStore creates a new Store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Dir returns the directory a post with the given title is stored in.
func (s *Store) Dir(title string) string {
	return filepath.Join(s.baseDir, repost.SanitizeTitle(title))
}

// Persist writes files and returns their final paths in the order given.
func (s *Store) Persist(ctx context.Context, title string, files []repost.File) ([]string, error) {
	name := repost.SanitizeTitle(title)
	if name == "" || name == "." || name == ".." {
		return nil, repost.Errorf(repost.EINVALID, "title %q cannot name a directory", title)
	}
	for _, f := range files {
		if err := validateName(f.Name); err != nil {
			return nil, err
		}
	}

	finalDir := filepath.Join(s.baseDir, name)
	tempDir := finalDir + ".tmp"

	if err := os.RemoveAll(tempDir); err != nil {
		return nil, repost.WrapError(repost.EINTERNAL, err, "clear %s", tempDir)
	}

	rel := make([]string, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			_ = os.RemoveAll(tempDir)
			return nil, err
		}
		if err := writeFile(filepath.Join(tempDir, filepath.FromSlash(f.Name)), f.Data); err != nil {
			_ = os.RemoveAll(tempDir)
			return nil, err
		}
		rel = append(rel, filepath.FromSlash(f.Name))
	}
	if len(files) == 0 {
		if err := os.MkdirAll(tempDir, 0o755); err != nil {
			return nil, repost.WrapError(repost.EINTERNAL, err, "create %s", tempDir)
		}
	}

	if err := os.RemoveAll(finalDir); err != nil {
		_ = os.RemoveAll(tempDir)
		return nil, repost.WrapError(repost.EINTERNAL, err, "replace %s", finalDir)
	}
	if err := os.Rename(tempDir, finalDir); err != nil {
		_ = os.RemoveAll(tempDir)
		return nil, repost.WrapError(repost.EINTERNAL, err, "commit %s", finalDir)
	}

	paths := make([]string, len(rel))
	for i, r := range rel {
		paths[i] = filepath.Join(finalDir, r)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return repost.WrapError(repost.EINTERNAL, err, "create directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return repost.WrapError(repost.EINTERNAL, err, "write %s", path)
	}
	return nil
}

// validateName rejects names that would escape the run directory.
func validateName(name string) error {
	if name == "" {
		return repost.Errorf(repost.EINVALID, "file name required")
	}
	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return repost.Errorf(repost.EINVALID, "file name %q must be relative", name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return repost.Errorf(repost.EINVALID, "file name %q escapes the run directory", name)
		}
	}
	return nil
}
