package ownmanual

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Section represents a heading in generated content.
type Section struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// NavNode is one entry of the rendered sidebar: a heading with its
// nested sub-headings.
type NavNode struct {
	Title    string
	Anchor   string
	Category bool
	Children []*NavNode
}

// BuildNav assembles sections into a tree by heading level. A section
// becomes a child of the nearest preceding section with a smaller level;
// sections at the same level are siblings in document order.
func BuildNav(sections []Section) []*NavNode {
	var roots []*NavNode

	// Stack of open nodes with their levels, innermost last.
	type openNode struct {
		node  *NavNode
		level int
	}
	var stack []openNode

	for _, s := range sections {
		node := &NavNode{Title: s.Title, Anchor: s.Anchor}

		// Pop anything at the same or deeper level.
		for len(stack) > 0 && stack[len(stack)-1].level >= s.Level {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, openNode{node: node, level: s.Level})
	}

	return roots
}

// TopicNav builds the sidebar tree for the final document from the
// flattened topic index. Depth maps directly to heading level; category
// headers become unlinked entries.
func TopicNav(topics []*Topic) []*NavNode {
	sections := make([]Section, 0, len(topics))
	categories := make(map[string]bool, len(topics))

	for _, t := range topics {
		sections = append(sections, Section{
			Level:  t.Depth + 1,
			Title:  t.Label,
			Anchor: AnchorFromPath(t.Path),
		})
		if t.Category {
			categories[AnchorFromPath(t.Path)] = true
		}
	}

	roots := BuildNav(sections)
	markCategories(roots, categories)
	return roots
}

func markCategories(nodes []*NavNode, categories map[string]bool) {
	for _, n := range nodes {
		if categories[n.Anchor] {
			n.Category = true
		}
		markCategories(n.Children, categories)
	}
}

// ExtractSections parses markdown and returns all headings (H1-H6).
// It generates URL-safe anchors and handles duplicates with numeric
// suffixes.
func ExtractSections(markdown string) []Section {
	if markdown == "" {
		return nil
	}

	// Remove code blocks to avoid matching # in code
	cleaned := removeCodeBlocks(markdown)

	// Match markdown headings: # through ######
	headingRe := regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	matches := headingRe.FindAllStringSubmatch(cleaned, -1)

	if len(matches) == 0 {
		return nil
	}

	sections := make([]Section, 0, len(matches))
	anchorCounts := make(map[string]int)

	for _, match := range matches {
		level := len(match[1])
		title := strings.TrimSpace(match[2])
		baseAnchor := GenerateAnchor(title)

		// Handle duplicates
		anchor := baseAnchor
		if count, exists := anchorCounts[baseAnchor]; exists {
			anchor = baseAnchor + "-" + strconv.Itoa(count)
			anchorCounts[baseAnchor]++
		} else {
			anchorCounts[baseAnchor] = 1
		}

		sections = append(sections, Section{
			Level:  level,
			Title:  title,
			Anchor: anchor,
		})
	}

	return sections
}

// removeCodeBlocks removes fenced code blocks from markdown.
func removeCodeBlocks(s string) string {
	codeBlockRe := regexp.MustCompile("(?s)```.*?```")
	return codeBlockRe.ReplaceAllString(s, "")
}

// GenerateAnchor creates a URL-safe anchor from a title.
// Converts to lowercase, replaces spaces with hyphens, removes special
// characters.
func GenerateAnchor(title string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if unicode.IsSpace(r) || r == '-' {
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	result := sb.String()
	// Trim trailing hyphen
	return strings.TrimSuffix(result, "-")
}

// AnchorFromPath creates a document-unique anchor from a topic path.
// Paths are unique per topic, so anchors derived from them need no
// dedup suffixes.
func AnchorFromPath(path string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(path) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			prevHyphen = false
		case unicode.IsSpace(r) || r == '/' || r == '-':
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}
