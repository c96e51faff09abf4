// Package render turns fetched manual content into operator-facing
// documents: one combined markdown file, and one self-contained HTML
// file with every image embedded.
package render

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/fkarasek/ownmanual"
)

// SkippedTopic pairs a topic with the error that caused its skip.
type SkippedTopic struct {
	Topic *ownmanual.Topic
	Err   error
}

// Combiner concatenates fetched topics into a single markdown document
// preceded by a linked table of contents.
type Combiner struct {
	Topics ownmanual.TopicStore

	// Title heads the combined document.
	Title string

	// Strict aborts on the first topic present in the index but missing
	// on disk. The default is to skip it with a warning.
	Strict bool
}

// CombineResult holds the combined document and what was left out of it.
type CombineResult struct {
	Markdown string
	Included int
	Skipped  []SkippedTopic
}

// relImagesRe matches image paths written by the fetch stage, which are
// relative to each topic's directory. The combined document lives at the
// output root, next to the images directory.
var relImagesRe = regexp.MustCompile(`(\.\./)+images/`)

// Combine loads the topic index and concatenates every fetched topic in
// TOC order. Topics missing on disk are skipped unless Strict is set.
func (c *Combiner) Combine(ctx context.Context) (*CombineResult, error) {
	topics, err := c.Topics.LoadIndex(ctx)
	if err != nil {
		return nil, err
	}

	title := c.Title
	if title == "" {
		title = "Owner's Manual"
	}

	result := &CombineResult{}
	var toc strings.Builder
	var body strings.Builder

	for _, topic := range topics {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		anchor := ownmanual.AnchorFromPath(topic.Path)
		toc.WriteString(strings.Repeat("  ", topic.Depth))
		fmt.Fprintf(&toc, "- [%s](#%s)\n", topic.Label, anchor)

		if topic.Category {
			fmt.Fprintf(&body, "<a id=%q></a>\n\n%s %s\n\n", anchor, headingMarker(topic.Depth), topic.Label)
			continue
		}

		markdown, err := c.Topics.LoadMarkdown(ctx, topic)
		if err != nil {
			if c.Strict {
				return nil, ownmanual.Errorf(ownmanual.ENOTFOUND, "topic %q (%s) missing from disk: %s",
					topic.Label, topic.Path, ownmanual.ErrorMessage(err))
			}
			result.Skipped = append(result.Skipped, SkippedTopic{Topic: topic, Err: err})
			continue
		}

		markdown = relImagesRe.ReplaceAllString(markdown, "images/")

		markdown, subs := linkSections(markdown, anchor)
		for _, s := range subs {
			toc.WriteString(strings.Repeat("  ", topic.Depth+1))
			fmt.Fprintf(&toc, "- [%s](#%s)\n", s.Title, s.Anchor)
		}

		fmt.Fprintf(&body, "<a id=%q></a>\n\n%s\n\n", anchor, strings.TrimSpace(markdown))
		result.Included++
	}

	var doc strings.Builder
	fmt.Fprintf(&doc, "# %s\n\n## Contents\n\n", title)
	doc.WriteString(toc.String())
	doc.WriteString("\n---\n\n")
	doc.WriteString(body.String())

	result.Markdown = doc.String()
	return result, nil
}

// linkSections gives every second-level heading of a topic an anchor,
// unique across the document by the topic anchor prefix, and returns the
// annotated markdown together with the headings for the table of
// contents. A topic's own title (the H1) is already linked through the
// topic anchor.
func linkSections(markdown, topicAnchor string) (string, []ownmanual.Section) {
	var subs []ownmanual.Section
	for _, s := range ownmanual.ExtractSections(markdown) {
		if s.Level != 2 {
			continue
		}
		subs = append(subs, ownmanual.Section{
			Level:  s.Level,
			Title:  s.Title,
			Anchor: topicAnchor + "-" + s.Anchor,
		})
	}
	if len(subs) == 0 {
		return markdown, nil
	}

	// ExtractSections skips fenced code blocks, so track fences here to
	// keep the heading walk aligned with it.
	var out []string
	next := 0
	inFence := false
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, "```") {
			inFence = !inFence
		}
		if !inFence && next < len(subs) && strings.HasPrefix(line, "## ") {
			out = append(out, fmt.Sprintf("<a id=%q></a>", subs[next].Anchor), "")
			next++
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n"), subs
}

// headingMarker returns the markdown heading for a category at the given
// depth. The document title takes H1, so categories start at H2.
func headingMarker(depth int) string {
	level := depth + 2
	if level > 6 {
		level = 6
	}
	return strings.Repeat("#", level)
}
