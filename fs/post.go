package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/fwojciec/repost"
	"gopkg.in/yaml.v3"
)

// Names of the files a run directory holds.
const (
	OriginalTextFile     = "original.txt"
	OriginalMarkdownFile = "original.md"
	PostTextFile         = "post.txt"
	PostYAMLFile         = "post.yaml"
	ImagesDir            = "images"
)

// ImageName returns the file name of the i-th image, counting from 1.
func ImageName(i int, format repost.ImageFormat) string {
	return ImagesDir + "/image_" + strconv.Itoa(i) + format.Ext()
}

// FormatPostText renders the canonical title followed by the body.
func FormatPostText(post *repost.StyledPost) string {
	return post.Title() + "\n\n" + post.Body + "\n"
}

// MarshalPost encodes post as YAML.
func MarshalPost(post *repost.StyledPost) ([]byte, error) {
	data, err := yaml.Marshal(post)
	if err != nil {
		return nil, repost.WrapError(repost.EINTERNAL, err, "encode post")
	}
	return data, nil
}

// LoadPost reads a run directory written by Store. The post comes from
// post.yaml, or from post.txt (first line is the title) when there is no
// YAML file. Images are returned in index order.
func LoadPost(dir string) (*repost.StyledPost, []string, error) {
	post, err := readPost(dir)
	if err != nil {
		return nil, nil, err
	}
	if err := post.Validate(); err != nil {
		return nil, nil, err
	}

	images, err := listImages(filepath.Join(dir, ImagesDir))
	if err != nil {
		return nil, nil, err
	}
	return post, images, nil
}

func readPost(dir string) (*repost.StyledPost, error) {
	data, err := os.ReadFile(filepath.Join(dir, PostYAMLFile))
	if err == nil {
		var post repost.StyledPost
		if err := yaml.Unmarshal(data, &post); err != nil {
			return nil, repost.WrapError(repost.EINVALID, err, "parse %s", PostYAMLFile)
		}
		return &post, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, repost.WrapError(repost.EINTERNAL, err, "read %s", PostYAMLFile)
	}

	data, err = os.ReadFile(filepath.Join(dir, PostTextFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, repost.Errorf(repost.ENOTFOUND, "no post found in %s", dir)
	} else if err != nil {
		return nil, repost.WrapError(repost.EINTERNAL, err, "read %s", PostTextFile)
	}

	title, body, _ := strings.Cut(string(data), "\n")
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, repost.Errorf(repost.EINVALID, "%s has no title line", PostTextFile)
	}
	return &repost.StyledPost{
		TitleCandidates: []string{title},
		Body:            strings.TrimSpace(body),
	}, nil
}

var imageIndex = regexp.MustCompile(`(\d+)`)

// listImages returns image files in dir ordered by the first number in
// their name, then by name. A missing directory yields no images.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, repost.WrapError(repost.EINTERNAL, err, "list %s", dir)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && repost.IsImagePath(e.Name()) {
			names = append(names, e.Name())
		}
	}

	sort.SliceStable(names, func(i, j int) bool {
		ni, nj := leadingIndex(names[i]), leadingIndex(names[j])
		if ni != nj {
			return ni < nj
		}
		return names[i] < names[j]
	})

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

func leadingIndex(name string) int {
	m := imageIndex.FindString(name)
	if m == "" {
		return -1
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return -1
	}
	return n
}
