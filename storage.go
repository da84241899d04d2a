package repost

import (
	"context"
	"strings"
)

// File is a named blob to persist. Name is a slash-separated relative path.
type File struct {
	Name string
	Data []byte
}

// Storage persists the artifacts of a run.
type Storage interface {
	// Persist writes files into a directory keyed by the sanitized title
	// and returns the paths written, in the order of files.
	Persist(ctx context.Context, title string, files []File) ([]string, error)
}

var titleReplacer = strings.NewReplacer(
	`\`, "_", "/", "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// SanitizeTitle makes title safe to use as a single directory name by
// replacing each of \ / : * ? " < > | with an underscore.
func SanitizeTitle(title string) string {
	return titleReplacer.Replace(strings.TrimSpace(title))
}
