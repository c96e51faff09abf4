package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fkarasek/ownmanual"
)

// Run executes the combine command.
func (c *CombineCmd) Run(deps *Dependencies) error {
	return runCombine(deps, c.Output)
}

// runCombine writes combined_manual.md into dir. Shared with the fetch
// command's --combine flag.
func runCombine(deps *Dependencies, dir string) error {
	result, err := deps.Combiner.Combine(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ownmanual.ErrorMessage(err))
		return err
	}

	path := filepath.Join(dir, "combined_manual.md")
	if err := os.WriteFile(path, []byte(result.Markdown), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(deps.Stdout, "Combined %d topics into %s\n", result.Included, path)

	if len(result.Skipped) > 0 {
		fmt.Fprintf(deps.Stderr, "\n%d topics missing from disk:\n", len(result.Skipped))
		for _, s := range result.Skipped {
			fmt.Fprintf(deps.Stderr, "  %s: %s\n", s.Topic.Path, ownmanual.ErrorMessage(s.Err))
		}
		return ownmanual.Errorf(ownmanual.ENOTFOUND, "combined with %d topics missing", len(result.Skipped))
	}
	return nil
}
