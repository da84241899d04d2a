package pipeline

import (
	"github.com/fwojciec/repost"
	"github.com/fwojciec/repost/fs"
)

// Files returns the files that make up a persisted run, in this order:
// original text, original markdown (only with a Converter), post text,
// post YAML and the images numbered from 1.
func (p *Pipeline) Files(bundle *repost.Bundle) ([]repost.File, error) {
	if bundle.Article == nil || bundle.Post == nil {
		return nil, repost.Errorf(repost.EINVALID, "bundle has no article or post")
	}

	files := []repost.File{
		{Name: fs.OriginalTextFile, Data: []byte(bundle.Article.Title + "\n\n" + bundle.Article.Text() + "\n")},
	}

	if p.Converter != nil && bundle.Article.ContentHTML != "" {
		markdown, err := p.Converter.Convert(bundle.Article.ContentHTML)
		if err != nil {
			return nil, err
		}
		files = append(files, repost.File{Name: fs.OriginalMarkdownFile, Data: []byte(markdown + "\n")})
	}

	yamlData, err := fs.MarshalPost(bundle.Post)
	if err != nil {
		return nil, err
	}
	files = append(files,
		repost.File{Name: fs.PostTextFile, Data: []byte(fs.FormatPostText(bundle.Post))},
		repost.File{Name: fs.PostYAMLFile, Data: yamlData},
	)

	for i, img := range bundle.Images {
		files = append(files, repost.File{Name: fs.ImageName(i+1, img.Format), Data: img.Data})
	}
	return files, nil
}
