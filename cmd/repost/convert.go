package main

import (
	"errors"
	"fmt"

	"github.com/fwojciec/repost"
	"github.com/fwojciec/repost/pipeline"
)

// Run executes the convert command.
func (c *ConvertCmd) Run(deps *Dependencies) error {
	return runPipeline(deps, c.URL)
}

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	return runPipeline(deps, c.URL)
}

// runPipeline converts url with the wired pipeline, prints a summary and
// records the run in the history.
func runPipeline(deps *Dependencies, url string) error {
	if deps.Pipeline == nil {
		return repost.Errorf(repost.EINVALID, "pipeline not configured")
	}

	deps.Pipeline.Progress = func(event pipeline.ProgressEvent) {
		switch event.Type {
		case pipeline.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d images\n", event.Total)
		case pipeline.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip image %d %s: %s\n",
				event.Index+1, TruncateURL(event.URL, 60), repost.ErrorMessage(event.Error))
		}
	}

	bundle, runErr := deps.Pipeline.Run(deps.Ctx, url)

	run := newRun(url, deps.Strategy, bundle, runErr)
	if deps.Runs != nil {
		if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
			fmt.Fprintf(deps.Stderr, "warning: run not recorded: %s\n", repost.ErrorMessage(err))
		}
	}

	if runErr != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", describeError(runErr))
		return runErr
	}

	fmt.Fprintf(deps.Stdout, "  Title: %s\n", bundle.Post.Title())
	for _, alt := range bundle.Post.TitleCandidates[1:] {
		fmt.Fprintf(deps.Stdout, "     or: %s\n", alt)
	}
	fmt.Fprintf(deps.Stdout, "  Images: %d saved, %d skipped (%s)\n",
		len(bundle.Images), len(bundle.Failures), FormatBytes(imageBytes(bundle.Images)))
	if bundle.Dir != "" {
		fmt.Fprintf(deps.Stdout, "  Saved to %s\n", bundle.Dir)
	}
	if bundle.Publish != nil {
		printPublishResult(deps, bundle.Publish)
		if !bundle.Publish.Success {
			return repost.Errorf(repost.EPUBLISH, "%s", bundle.Publish.Message)
		}
	}
	return nil
}

// newRun builds the history record of a pipeline run.
func newRun(url, strategy string, bundle *repost.Bundle, err error) *repost.Run {
	run := &repost.Run{
		SourceURL: url,
		Strategy:  strategy,
		Status:    repost.RunConverted,
	}
	if bundle != nil {
		run.ContentHash = bundle.ContentHash
		run.Images = len(bundle.Images)
		run.Failures = len(bundle.Failures)
		run.Dir = bundle.Dir
		if bundle.Post != nil {
			run.Title = bundle.Post.Title()
		} else if bundle.Article != nil {
			run.Title = bundle.Article.Title
		}
		if bundle.Publish != nil {
			run.Message = bundle.Publish.Message
			run.PostURL = bundle.Publish.PostURL
			run.Status = repost.RunPublished
			if !bundle.Publish.Success {
				run.Status = repost.RunFailed
			}
		}
	}
	if err != nil {
		run.Status = repost.RunFailed
		run.Message = repost.ErrorMessage(err)
	}
	return run
}

func printPublishResult(deps *Dependencies, result *repost.PublishResult) {
	if !result.Success {
		fmt.Fprintf(deps.Stderr, "  Publish failed: %s\n", result.Message)
		return
	}
	fmt.Fprintf(deps.Stdout, "  Published: %s\n", result.Message)
	if result.PostURL != "" {
		fmt.Fprintf(deps.Stdout, "  %s\n", result.PostURL)
	}
}

func imageBytes(images []*repost.NormalizedImage) int {
	n := 0
	for _, img := range images {
		n += len(img.Data)
	}
	return n
}

// describeError names the failed stage, if any, and the error message.
func describeError(err error) string {
	var stageErr *repost.StageError
	if errors.As(err, &stageErr) {
		return fmt.Sprintf("%s failed: %s", stageErr.Stage, repost.ErrorMessage(stageErr.Err))
	}
	return repost.ErrorMessage(err)
}
