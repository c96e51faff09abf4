package goquery_test

import (
	"testing"

	"github.com/fkarasek/ownmanual/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_CleanTopicHTML_UnwrapsTopicContent(t *testing.T) {
	t.Parallel()

	p := goquery.NewProcessor()

	html := `<html><div><div class="topic-content"><p>Hello</p></div></div></html>`

	out, err := p.CleanTopicHTML(html)

	require.NoError(t, err)
	assert.Equal(t, "<p>Hello</p>", out)
}

func TestProcessor_CleanTopicHTML_SignalwordPanel(t *testing.T) {
	t.Parallel()

	p := goquery.NewProcessor()

	html := `<div data-role="signalword-panel" data-type="warning"><p>WAARSCHUWING</p></div>`

	out, err := p.CleanTopicHTML(html)

	require.NoError(t, err)
	assert.Contains(t, out, `class="signalword-panel"`)
	assert.NotContains(t, out, "data-role")
	assert.NotContains(t, out, "data-type")
}

func TestProcessor_CleanTopicHTML_Bridgehead(t *testing.T) {
	t.Parallel()

	p := goquery.NewProcessor()

	html := `<p data-type="titel" data-role="bridgehead">Belangrijk</p>`

	out, err := p.CleanTopicHTML(html)

	require.NoError(t, err)
	assert.Contains(t, out, `class="sub-header"`)
	assert.Contains(t, out, "<strong>Belangrijk</strong>")
}

func TestProcessor_CleanTopicHTML_StripsVendorAttrs(t *testing.T) {
	t.Parallel()

	p := goquery.NewProcessor()

	html := `<section id="x1" class="vendor-layout" data-topic="9"><p checked-link="abc" media-link="">Text</p><img src="a.png" alt=""></section>`

	out, err := p.CleanTopicHTML(html)

	require.NoError(t, err)
	assert.NotContains(t, out, "id=")
	assert.NotContains(t, out, "class=")
	assert.NotContains(t, out, "data-topic")
	assert.NotContains(t, out, "checked-link")
	assert.NotContains(t, out, "media-link")
	assert.NotContains(t, out, "alt=")
	assert.Contains(t, out, "Text")
}

func TestProcessor_CleanTopicHTML_DropsEmptyParagraphs(t *testing.T) {
	t.Parallel()

	p := goquery.NewProcessor()

	html := `<p>   </p><p>Real</p><p><img src="a.png"></p>`

	out, err := p.CleanTopicHTML(html)

	require.NoError(t, err)
	assert.NotContains(t, out, "<p>   </p>")
	assert.Contains(t, out, "<p>Real</p>")
	// Image-only paragraphs survive
	assert.Contains(t, out, `src="a.png"`)
}

func TestProcessor_CleanTopicHTML_UnwrapsDeadLinks(t *testing.T) {
	t.Parallel()

	p := goquery.NewProcessor()

	html := `<p>See <a href="#" checked-link="x">chapter two</a> and <a href="https://example.com">this</a>.</p>`

	out, err := p.CleanTopicHTML(html)

	require.NoError(t, err)
	assert.Contains(t, out, "chapter two")
	assert.NotContains(t, out, `href="#"`)
	assert.Contains(t, out, `href="https://example.com"`)
}

func TestProcessor_CleanTopicHTML_KeepsStyleOnImages(t *testing.T) {
	t.Parallel()

	p := goquery.NewProcessor()

	// Embedding happens before cleanup; inline styles must survive
	html := `<img src="data:image/png;base64,AAAA" style="max-width: 100%; height: auto;">`

	out, err := p.CleanTopicHTML(html)

	require.NoError(t, err)
	assert.Contains(t, out, `style="max-width: 100%; height: auto;"`)
}
