// Package goquery provides HTML processing for vendor topic content:
// image reference extraction and rewriting, and cleanup of the vendor's
// markup for offline rendering.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fkarasek/ownmanual"
)

// Ensure Processor implements ownmanual.ImageRewriter at compile time.
var _ ownmanual.ImageRewriter = (*Processor)(nil)

// Processor implements image reference extraction and rewriting on top
// of goquery.
type Processor struct{}

// NewProcessor creates a new Processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// ImageRefs returns the image URLs referenced by the HTML in document
// order. The vendor lazy-loads most images, so data-src takes precedence
// over src. Duplicates within one topic are preserved; deduplication is
// the fetch pipeline's concern.
func (p *Processor) ImageRefs(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, ownmanual.Errorf(ownmanual.EINVALID, "failed to parse HTML: %v", err)
	}

	var refs []string
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src := imageSrc(sel)
		if src != "" {
			refs = append(refs, src)
		}
	})

	return refs, nil
}

// RewriteImageRefs replaces each image reference for which rewrite
// returns true. The data-src attribute is dropped on rewritten images so
// downstream consumers see a single source of truth.
func (p *Processor) RewriteImageRefs(html string, rewrite func(src string) (string, bool)) (string, error) {
	return p.ReplaceImages(html, func(src string) (ImageReplacement, bool) {
		newSrc, ok := rewrite(src)
		return ImageReplacement{Src: newSrc}, ok
	})
}

// ImageReplacement describes the new attributes for a rewritten image.
type ImageReplacement struct {
	Src string

	// Style, when non-empty, replaces the image's inline style. Used by
	// the renderer to size embedded icons and QR codes.
	Style string
}

// ReplaceImages rewrites image elements using the given replacement
// function and returns the resulting HTML. Images for which fn returns
// false are left untouched.
func (p *Processor) ReplaceImages(html string, fn func(src string) (ImageReplacement, bool)) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", ownmanual.Errorf(ownmanual.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src := imageSrc(sel)
		if src == "" {
			return
		}

		repl, ok := fn(src)
		if !ok {
			return
		}

		sel.SetAttr("src", repl.Src)
		sel.RemoveAttr("data-src")
		if repl.Style != "" {
			sel.SetAttr("style", repl.Style)
		}
	})

	return doc.Find("body").Html()
}

// imageSrc returns the effective source of an image element, HTML
// entities already decoded by the parser.
func imageSrc(sel *goquery.Selection) string {
	if src, ok := sel.Attr("data-src"); ok && src != "" {
		return src
	}
	src, _ := sel.Attr("src")
	return src
}
