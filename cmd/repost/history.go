package main

import (
	"fmt"

	"github.com/fwojciec/repost"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := repost.RunFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.SourceURL = &c.URL
	}
	if c.Status != "" {
		switch c.Status {
		case repost.RunConverted, repost.RunPublished, repost.RunFailed:
		default:
			err := repost.Errorf(repost.EINVALID, "status %q not recognized", c.Status)
			fmt.Fprintf(deps.Stderr, "error: %s\n", repost.ErrorMessage(err))
			return err
		}
		filter.Status = &c.Status
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repost.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'repost convert' to create one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %-9s  %s  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Status, r.Title, r.SourceURL)
		if r.Status == repost.RunFailed && r.Message != "" {
			fmt.Fprintf(deps.Stdout, "    %s\n", r.Message)
		}
	}
	return nil
}
