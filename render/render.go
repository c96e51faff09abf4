package render

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/fkarasek/ownmanual"
	"github.com/fkarasek/ownmanual/fetch"
	oq "github.com/fkarasek/ownmanual/goquery"
	"github.com/vincent-petithory/dataurl"

	_ "embed"
)

//go:embed assets/manual.html.tmpl
var manualTemplate string

// missingImageSVG is embedded in place of images the fetch stage failed
// to download, so the document never references the network.
const missingImageSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="120" height="80" viewBox="0 0 120 80"><rect width="120" height="80" fill="#f3f4f6" stroke="#d1d5db"/><line x1="0" y1="0" x2="120" y2="80" stroke="#d1d5db"/><line x1="120" y1="0" x2="0" y2="80" stroke="#d1d5db"/><text x="60" y="44" font-size="10" fill="#6b7280" text-anchor="middle">image missing</text></svg>`

// Inline styles applied to embedded images by kind. The vendor uses
// small SVG pictograms inline with text, QR code rasters, and full-width
// photographs.
const (
	styleIcon  = "height:24px;width:auto;vertical-align:middle"
	styleQR    = "width:150px;height:auto"
	stylePhoto = "max-width:100%;height:auto"
)

// Renderer produces one self-contained HTML document from fetched
// content: raw topic bodies are cleaned, every image is embedded as a
// data URI, and a sidebar is generated from the topic hierarchy.
type Renderer struct {
	Topics ownmanual.TopicStore
	Images ownmanual.ImageStore
	HTML   *oq.Processor

	// Title heads the document and the sidebar.
	Title string

	// Strict aborts on the first topic present in the index but missing
	// on disk. The default is to skip it with a warning.
	Strict bool
}

// RenderResult holds the rendered document and everything that degraded
// it: skipped topics and image references with no file on disk.
type RenderResult struct {
	HTML          string
	Included      int
	Skipped       []SkippedTopic
	MissingImages []string
}

type renderedTopic struct {
	Heading template.HTML
	Body    template.HTML
}

type pageData struct {
	Title  string
	Nav    []*ownmanual.NavNode
	Topics []renderedTopic
}

// Render loads the topic index and renders every fetched topic in TOC
// order into a single HTML document with no external resources.
func (r *Renderer) Render(ctx context.Context) (*RenderResult, error) {
	topics, err := r.Topics.LoadIndex(ctx)
	if err != nil {
		return nil, err
	}

	title := r.Title
	if title == "" {
		title = "Owner's Manual"
	}

	result := &RenderResult{}
	rendered := make([]renderedTopic, 0, len(topics))
	included := make([]*ownmanual.Topic, 0, len(topics))
	missingSeen := make(map[string]bool)

	for _, topic := range topics {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if topic.Category {
			rendered = append(rendered, renderedTopic{Heading: topicHeading(topic)})
			included = append(included, topic)
			continue
		}

		body, err := r.renderTopic(ctx, topic, result, missingSeen)
		if err != nil {
			if r.Strict {
				return nil, ownmanual.Errorf(ownmanual.ENOTFOUND, "topic %q (%s) missing from disk: %s",
					topic.Label, topic.Path, ownmanual.ErrorMessage(err))
			}
			result.Skipped = append(result.Skipped, SkippedTopic{Topic: topic, Err: err})
			continue
		}

		rendered = append(rendered, renderedTopic{
			Heading: topicHeading(topic),
			Body:    template.HTML(body),
		})
		included = append(included, topic)
		result.Included++
	}

	tmpl, err := template.New("manual").Parse(manualTemplate)
	if err != nil {
		return nil, err
	}

	var out strings.Builder
	err = tmpl.Execute(&out, pageData{
		Title:  title,
		Nav:    ownmanual.TopicNav(included),
		Topics: rendered,
	})
	if err != nil {
		return nil, err
	}

	result.HTML = out.String()
	return result, nil
}

// renderTopic loads one topic's raw API response, embeds its images, and
// cleans the vendor markup.
func (r *Renderer) renderTopic(ctx context.Context, topic *ownmanual.Topic, result *RenderResult, missingSeen map[string]bool) (string, error) {
	raw, err := r.Topics.LoadRaw(ctx, topic)
	if err != nil {
		return "", err
	}

	var content ownmanual.TopicContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return "", ownmanual.Errorf(ownmanual.EINVALID, "topic %q has corrupt raw content: %v", topic.Label, err)
	}

	// Embed before cleaning: cleaning strips the vendor attributes that
	// identify image sources.
	embedded, err := r.HTML.ReplaceImages(content.BodyHTML, func(src string) (oq.ImageReplacement, bool) {
		filename := ownmanual.ImageFilename(src, fetch.HashString)

		data, err := r.Images.LoadImage(ctx, filename)
		if err != nil {
			// The same image may be referenced by many topics; report
			// each missing source once.
			if !missingSeen[src] {
				missingSeen[src] = true
				result.MissingImages = append(result.MissingImages, src)
			}
			return oq.ImageReplacement{
				Src:   dataurl.New([]byte(missingImageSVG), "image/svg+xml").String(),
				Style: styleIcon,
			}, true
		}

		return oq.ImageReplacement{
			Src:   dataurl.New(data, ownmanual.MimeType(filename)).String(),
			Style: imageStyle(filename),
		}, true
	})
	if err != nil {
		return "", err
	}

	return r.HTML.CleanTopicHTML(embedded)
}

// imageStyle picks the inline sizing for an embedded image.
func imageStyle(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, "imgqr"):
		return styleQR
	case strings.HasSuffix(lower, ".svg"):
		return styleIcon
	default:
		return stylePhoto
	}
}

// topicHeading renders a topic's section heading. The document title
// takes H1; topics nest from H2 down, capped at H6 so the sticky header
// offsets stay bounded.
func topicHeading(topic *ownmanual.Topic) template.HTML {
	level := topic.Depth + 2
	if level > 6 {
		level = 6
	}
	anchor := ownmanual.AnchorFromPath(topic.Path)
	return template.HTML(fmt.Sprintf("<h%d id=%q>%s</h%d>", level, anchor, html.EscapeString(topic.Label), level))
}
