package main

import (
	"fmt"

	"github.com/fkarasek/ownmanual"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	fmt.Fprintf(deps.Stdout, "Fetching manual %s into %s\n", c.Root, c.Output)

	result, err := deps.Fetcher.Run(deps.Ctx, c.Root, func(p ownmanual.FetchProgress) {
		if p.Err != nil {
			fmt.Fprintf(deps.Stderr, "  [%d/%d] skipped %s: %s\n",
				p.Completed, p.Total, p.Topic.Path, ownmanual.ErrorMessage(p.Err))
			return
		}
		fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", p.Completed, p.Total, p.Topic.Path)
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ownmanual.ErrorMessage(err))
		if ownmanual.ErrorCode(err) == ownmanual.EUNAUTHORIZED {
			fmt.Fprintln(deps.Stderr, "Hint: Session cookies expire; export fresh ones from your browser")
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "\nFetched %d topics (%d categories, %d new images)\n",
		result.Fetched, result.Categories, result.Images)

	if len(result.SkippedTopics) > 0 {
		fmt.Fprintf(deps.Stderr, "\n%d topics skipped:\n", len(result.SkippedTopics))
		for _, s := range result.SkippedTopics {
			fmt.Fprintf(deps.Stderr, "  %s: %s\n", s.Topic.Path, ownmanual.ErrorMessage(s.Err))
		}
	}

	if result.Skipped > 0 {
		if c.Combine {
			fmt.Fprintln(deps.Stderr, "\nSkipping combine: the fetch was incomplete")
		}
		return ownmanual.Errorf(ownmanual.EUNAVAILABLE, "fetch completed with %d skipped topics", result.Skipped)
	}

	if c.Combine {
		return runCombine(deps, c.Output)
	}
	return nil
}
