package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/repost"
	"github.com/fwojciec/repost/fs"
)

// Run executes the publish command.
func (c *PublishCmd) Run(deps *Dependencies) error {
	if deps.Publisher == nil {
		return repost.Errorf(repost.EINVALID, "publisher not configured")
	}

	dir, err := filepath.Abs(c.Dir)
	if err != nil {
		return err
	}

	post, images, err := fs.LoadPost(dir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repost.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "  Publishing %q with %d images\n", post.Title(), len(images))

	result, err := deps.Publisher.Publish(deps.Ctx, repost.PublishRequest{
		Title:      post.Title(),
		Body:       post.Body,
		ImagePaths: images,
	})

	run := &repost.Run{
		SourceURL: dir,
		Title:     post.Title(),
		Images:    len(images),
		Dir:       dir,
		Status:    repost.RunPublished,
	}
	switch {
	case err != nil:
		run.Status = repost.RunFailed
		run.Message = repost.ErrorMessage(err)
	case !result.Success:
		run.Status = repost.RunFailed
		run.Message = result.Message
	default:
		run.Message = result.Message
		run.PostURL = result.PostURL
	}
	if deps.Runs != nil {
		if rerr := deps.Runs.CreateRun(deps.Ctx, run); rerr != nil {
			fmt.Fprintf(deps.Stderr, "warning: run not recorded: %s\n", repost.ErrorMessage(rerr))
		}
	}

	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repost.ErrorMessage(err))
		return err
	}
	printPublishResult(deps, result)
	if !result.Success {
		return repost.Errorf(repost.EPUBLISH, "%s", result.Message)
	}
	return nil
}
