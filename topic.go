package ownmanual

import (
	"regexp"
	"strings"
)

// TOC is the manual's table of contents as published by the vendor API.
// The API returns one or more topic trees under a single root key.
type TOC struct {
	Trees []*TOCNode `json:"trees"`
}

// TOCNode is a single node of the vendor's topic tree. Nodes without a
// LinkTarget are category headers: they structure the manual but have no
// content of their own.
type TOCNode struct {
	Label      string     `json:"label"`
	LinkTarget string     `json:"linkTarget"`
	Children   []*TOCNode `json:"children"`
}

// Topic is one section of the manual, flattened out of the TOC tree.
// Topics are immutable once written by the fetch stage.
type Topic struct {
	// Key is the vendor topic key used to fetch content.
	// Empty for category headers.
	Key string `json:"key"`

	// Label is the display title with any HTML markup stripped.
	Label string `json:"label"`

	// Path is the sanitized hierarchy path used as the on-disk location,
	// e.g. "Safety/Airbags/Front airbags".
	Path string `json:"path"`

	// Position is the topic's place in depth-first TOC order.
	Position int `json:"position"`

	// Depth is the nesting depth within the TOC (root nodes are 0).
	Depth int `json:"depth"`

	// Category is true for header-only nodes with no content.
	Category bool `json:"category"`
}

// Validate returns an error if the topic contains invalid fields.
func (t *Topic) Validate() error {
	if t.Label == "" {
		return Errorf(EINVALID, "topic label required")
	}
	if t.Path == "" {
		return Errorf(EINVALID, "topic path required")
	}
	if !t.Category && t.Key == "" {
		return Errorf(EINVALID, "topic %q: key required for content topics", t.Label)
	}
	return nil
}

// TopicContent is the content of a single topic as returned by the API.
type TopicContent struct {
	Key      string `json:"-"`
	Title    string `json:"title"`
	BodyHTML string `json:"bodyHtml"`

	// Raw holds the response body exactly as received, so that saved
	// files are byte-identical across runs when the remote content has
	// not changed.
	Raw []byte `json:"-"`
}

// FlattenTOC walks the TOC depth-first and returns all topics in table of
// contents order, assigning positions and sanitized paths.
func FlattenTOC(toc *TOC) []*Topic {
	var topics []*Topic
	for _, tree := range toc.Trees {
		topics = flattenNode(tree, "", 0, topics)
	}
	for i, t := range topics {
		t.Position = i
	}
	return topics
}

func flattenNode(node *TOCNode, parentPath string, depth int, topics []*Topic) []*Topic {
	label := StripTags(node.Label)
	if label == "" {
		label = "Untitled"
	}

	path := PathSegment(label)
	if parentPath != "" {
		path = parentPath + "/" + path
	}

	topics = append(topics, &Topic{
		Key:      node.LinkTarget,
		Label:    label,
		Path:     path,
		Depth:    depth,
		Category: node.LinkTarget == "",
	})

	for _, child := range node.Children {
		topics = flattenNode(child, path, depth+1, topics)
	}

	return topics
}

var (
	tagRe        = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	unsafeRe     = regexp.MustCompile(`[^\w\s-]`)
)

// StripTags removes HTML tags from a TOC label, keeping only the text
// content, and normalizes whitespace. Vendor labels occasionally contain
// markup such as <sup> or formatting spans.
func StripTags(s string) string {
	clean := tagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(clean, " "))
}

// PathSegment converts a topic label into a filesystem-safe path segment.
// Characters outside [word, space, hyphen] are dropped and the segment is
// capped at 50 characters to keep nested paths within OS limits.
func PathSegment(label string) string {
	safe := unsafeRe.ReplaceAllString(StripTags(label), "")
	if runes := []rune(safe); len(runes) > 50 {
		safe = string(runes[:50])
	}
	safe = strings.TrimSpace(safe)
	if safe == "" {
		return "Untitled"
	}
	return safe
}
