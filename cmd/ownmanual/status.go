package main

import (
	"fmt"

	"github.com/fkarasek/ownmanual"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	run, err := deps.Manifest.LastRun(deps.Ctx)
	if err != nil {
		if ownmanual.ErrorCode(err) == ownmanual.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "No fetch runs recorded. Run 'ownmanual fetch <root-key>' first.")
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Last run %s (root %s)\n", run.ID, run.RootKey)
	fmt.Fprintf(deps.Stdout, "  started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	if !run.FinishedAt.IsZero() {
		fmt.Fprintf(deps.Stdout, "  finished: %s\n", run.FinishedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(deps.Stdout, "  fetched %d, skipped %d, categories %d, images %d\n",
		run.Fetched, run.Skipped, run.Categories, run.Images)

	recs, err := deps.Manifest.FindTopicRecords(deps.Ctx, run.ID)
	if err != nil {
		return err
	}

	shown := 0
	for _, rec := range recs {
		if !c.Full && rec.Status != ownmanual.StatusSkipped {
			continue
		}
		if shown == 0 {
			fmt.Fprintln(deps.Stdout)
		}
		shown++
		line := fmt.Sprintf("  [%s] %s", rec.Status, rec.Path)
		if rec.Error != "" {
			line += ": " + rec.Error
		}
		fmt.Fprintln(deps.Stdout, line)
	}

	if !c.Full && shown == 0 {
		fmt.Fprintln(deps.Stdout, "  no skipped topics")
	}
	return nil
}
