package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fkarasek/ownmanual"
)

// Run executes the render command.
func (c *RenderCmd) Run(deps *Dependencies) error {
	result, err := deps.Renderer.Render(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ownmanual.ErrorMessage(err))
		return err
	}

	out := c.Out
	if out == "" {
		out = filepath.Join(c.Output, "manual.html")
	}
	if err := os.WriteFile(out, []byte(result.HTML), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	fmt.Fprintf(deps.Stdout, "Rendered %d topics into %s\n", result.Included, out)

	degraded := false
	if len(result.Skipped) > 0 {
		degraded = true
		fmt.Fprintf(deps.Stderr, "\n%d topics missing from disk:\n", len(result.Skipped))
		for _, s := range result.Skipped {
			fmt.Fprintf(deps.Stderr, "  %s: %s\n", s.Topic.Path, ownmanual.ErrorMessage(s.Err))
		}
	}
	if len(result.MissingImages) > 0 {
		degraded = true
		fmt.Fprintf(deps.Stderr, "\n%d images missing, placeholders embedded:\n", len(result.MissingImages))
		for _, src := range result.MissingImages {
			fmt.Fprintf(deps.Stderr, "  %s\n", src)
		}
	}

	if degraded {
		return ownmanual.Errorf(ownmanual.ENOTFOUND, "rendered with %d topics and %d images missing",
			len(result.Skipped), len(result.MissingImages))
	}
	return nil
}
