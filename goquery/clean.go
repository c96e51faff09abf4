package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fkarasek/ownmanual"
	"golang.org/x/net/html"
)

// classes preserved through attribute stripping.
var keepClasses = map[string]bool{
	"signalword-panel": true,
	"sub-header":       true,
}

// CleanTopicHTML normalizes a topic's vendor HTML for the final
// document:
//
//   - unwraps the outer html/div/topic-content wrapper
//   - converts signalword (warning/caution) panels to a stable class
//   - converts bridgehead title paragraphs to bold sub-headers
//   - strips vendor data-* attributes, ids, and classes
//   - drops empty paragraphs
//   - unwraps dead href="#" links, keeping their text
//
// Stray </img> closing tags in the vendor markup are discarded by the
// HTML parser itself.
func (p *Processor) CleanTopicHTML(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", ownmanual.Errorf(ownmanual.EINVALID, "failed to parse HTML: %v", err)
	}

	// The API wraps content as <html><div><div class="topic-content">...;
	// work from the inner wrapper when present.
	root := doc.Find("body")
	if inner := doc.Find("div.topic-content").First(); inner.Length() > 0 {
		root = inner
	}

	// Signalword panels keep a stable class for styling.
	root.Find(`div[data-role="signalword-panel"]`).Each(func(_ int, sel *goquery.Selection) {
		sel.SetAttr("class", "signalword-panel")
	})

	// Bridgehead titles become bold sub-headers.
	root.Find(`p[data-role="bridgehead"]`).Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		sel.SetHtml("<strong>" + html.EscapeString(text) + "</strong>")
		sel.SetAttr("class", "sub-header")
	})

	// Dead links are unwrapped, keeping their content.
	root.Find(`a[href="#"]`).Each(func(_ int, sel *goquery.Selection) {
		inner, err := sel.Html()
		if err != nil {
			return
		}
		sel.ReplaceWithHtml(inner)
	})

	// Empty paragraphs contribute nothing but spacing.
	root.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if strings.TrimSpace(sel.Text()) == "" && sel.Find("img").Length() == 0 {
			sel.Remove()
		}
	})

	stripVendorAttrs(root)

	out, err := root.Html()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// stripVendorAttrs removes vendor-specific attributes from the whole
// subtree: data-*, id, media-link, checked-link, empty alt, and any
// class not explicitly preserved.
func stripVendorAttrs(root *goquery.Selection) {
	root.Find("*").Each(func(_ int, sel *goquery.Selection) {
		for _, node := range sel.Nodes {
			kept := node.Attr[:0]
			for _, attr := range node.Attr {
				if dropAttr(attr) {
					continue
				}
				kept = append(kept, attr)
			}
			node.Attr = kept
		}
	})
}

func dropAttr(attr html.Attribute) bool {
	switch {
	case strings.HasPrefix(attr.Key, "data-"):
		return true
	case attr.Key == "id" || attr.Key == "media-link" || attr.Key == "checked-link":
		return true
	case attr.Key == "alt" && attr.Val == "":
		return true
	case attr.Key == "class" && !keepClasses[attr.Val]:
		return true
	}
	return false
}
