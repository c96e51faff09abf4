package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fkarasek/ownmanual"
	main "github.com/fkarasek/ownmanual/cmd/ownmanual"
	"github.com/fkarasek/ownmanual/fetch"
	"github.com/fkarasek/ownmanual/fs"
	"github.com/fkarasek/ownmanual/goquery"
	"github.com/fkarasek/ownmanual/htmltomarkdown"
	"github.com/fkarasek/ownmanual/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: End to End
// fetch pulls a manual from the API onto disk; combine and render read
// it back; status reports what happened.

// newVendorServer serves a minimal manual: one category with two topics
// sharing one image.
func newVendorServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/vw-topic/V1/topic", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"trees":[{"label":"Safety","linkTarget":null,"children":[
			{"label":"Airbags","linkTarget":"k1","children":[]},
			{"label":"Seat belts","linkTarget":"k2","children":[]}]}]}`))
	})
	mux.HandleFunc("/api/web/V6/topic", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("key") {
		case "k1":
			_, _ = w.Write([]byte(`{"title":"Airbags","bodyHtml":"<p>Front airbags.</p><img data-src=\"/fileservlet?key=pic.png\">"}`))
		default:
			_, _ = w.Write([]byte(`{"title":"Seat belts","bodyHtml":"<p>Buckle up.</p>"}`))
		}
	})
	mux.HandleFunc("/fileservlet", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeCookieFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cookies.txt")
	require.NoError(t, os.WriteFile(path, []byte("SESSION=abc123"), 0600))
	return path
}

func TestMain_NoCommand(t *testing.T) {
	t.Parallel()

	m := main.NewMain()

	err := m.Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "fetch")
	assert.Contains(t, stdout.String(), "render")
}

func TestMain_Fetch_MissingCookieFile(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "manifest.db")
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{
		"fetch", "root", "--cookies", filepath.Join(t.TempDir(), "nope.txt"),
	}, &bytes.Buffer{}, stderr)

	assert.Equal(t, ownmanual.EUNAUTHORIZED, ownmanual.ErrorCode(err))
	assert.Contains(t, stderr.String(), "Hint")
}

func TestMain_EndToEnd(t *testing.T) {
	t.Parallel()

	srv := newVendorServer(t)
	cookies := writeCookieFile(t)
	dir := filepath.Join(t.TempDir(), "manual")
	dbPath := filepath.Join(t.TempDir(), "manifest.db")

	m := main.NewMain()
	m.DBPath = dbPath

	// fetch
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{
		"fetch", "root-key",
		"--cookies", cookies,
		"-o", dir,
		"--base-url", srv.URL,
		"--timeout", "5s",
	}, stdout, stderr)

	require.NoError(t, err, "stderr: %s", stderr.String())
	assert.Contains(t, stdout.String(), "Fetched 2 topics")

	content, err := os.ReadFile(filepath.Join(dir, "Safety", "Airbags", "content.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Airbags")
	assert.Contains(t, string(content), "../../images/pic.png")

	_, err = os.Stat(filepath.Join(dir, "images", "pic.png"))
	require.NoError(t, err)

	// combine
	stdout.Reset()
	err = m.Run(context.Background(), []string{"combine", "-o", dir}, stdout, stderr)
	require.NoError(t, err)

	combined, err := os.ReadFile(filepath.Join(dir, "combined_manual.md"))
	require.NoError(t, err)
	doc := string(combined)
	assert.Contains(t, doc, "## Contents")
	assert.Contains(t, doc, "  - [Airbags](#safety-airbags)")
	assert.Contains(t, doc, "![](images/pic.png)")
	first := strings.Index(doc, "# Airbags")
	second := strings.Index(doc, "# Seat belts")
	assert.Greater(t, second, first)

	// render
	stdout.Reset()
	err = m.Run(context.Background(), []string{"render", "-o", dir}, stdout, stderr)
	require.NoError(t, err, "stderr: %s", stderr.String())

	page, err := os.ReadFile(filepath.Join(dir, "manual.html"))
	require.NoError(t, err)
	html := string(page)
	assert.Contains(t, html, "data:image/png;base64,")
	assert.Contains(t, html, `<h3 id="safety-airbags">Airbags</h3>`)
	assert.NotContains(t, html, srv.URL)

	// status
	stdout.Reset()
	err = m.Run(context.Background(), []string{"status"}, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "root-key")
	assert.Contains(t, stdout.String(), "fetched 2, skipped 0")
	assert.Contains(t, stdout.String(), "no skipped topics")
}

func TestMain_GlobalFlagBeforeCommand(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "manifest.db")
	stderr := &bytes.Buffer{}

	// Dispatch must follow the command Kong selected, not args[0]
	err := m.Run(context.Background(), []string{
		"-v", "combine", "-o", filepath.Join(t.TempDir(), "empty"),
	}, &bytes.Buffer{}, stderr)

	assert.Equal(t, ownmanual.ENOTFOUND, ownmanual.ErrorCode(err))
	assert.Contains(t, stderr.String(), "run fetch first")
}

func TestMain_Fetch_CombineSkippedWhenIncomplete(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := fs.NewStore(dir)

	client := &mock.ManualClient{
		TopicTreeFn: func(ctx context.Context, key string) (*ownmanual.TOC, error) {
			return &ownmanual.TOC{Trees: []*ownmanual.TOCNode{
				{Label: "Airbags", LinkTarget: "k1"},
				{Label: "Seat belts", LinkTarget: "k2"},
			}}, nil
		},
		TopicContentFn: func(ctx context.Context, key string) (*ownmanual.TopicContent, error) {
			if key == "k1" {
				return nil, ownmanual.Errorf(ownmanual.EUNAVAILABLE, "HTTP 502")
			}
			return &ownmanual.TopicContent{Key: key, Title: "Seat belts", BodyHTML: "<p>ok</p>"}, nil
		},
	}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Fetcher: &fetch.Fetcher{
			Client:      client,
			Topics:      store,
			Images:      store,
			Converter:   htmltomarkdown.NewConverter(),
			HTML:        goquery.NewProcessor(),
			RetryDelays: []time.Duration{},
		},
	}

	cmd := &main.FetchCmd{Root: "root", Output: dir, Combine: true}
	err := cmd.Run(deps)

	// An incomplete fetch exits nonzero and does not combine
	assert.Equal(t, ownmanual.EUNAVAILABLE, ownmanual.ErrorCode(err))
	assert.Contains(t, stderr.String(), "Skipping combine")

	_, statErr := os.Stat(filepath.Join(dir, "combined_manual.md"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestMain_Combine_NoIndex(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "manifest.db")
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{
		"combine", "-o", filepath.Join(t.TempDir(), "empty"),
	}, &bytes.Buffer{}, stderr)

	assert.Equal(t, ownmanual.ENOTFOUND, ownmanual.ErrorCode(err))
	assert.Contains(t, stderr.String(), "run fetch first")
}
