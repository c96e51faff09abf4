package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fkarasek/ownmanual"
	"github.com/fkarasek/ownmanual/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: On-Disk Manual Layout
// Topics live under their hierarchy path; images share one directory.

func TestStore_IndexRoundTrip(t *testing.T) {
	t.Parallel()

	store := fs.NewStore(t.TempDir())
	topics := []*ownmanual.Topic{
		{Label: "Safety", Path: "Safety", Position: 0, Category: true},
		{Key: "k1", Label: "Airbags", Path: "Safety/Airbags", Position: 1, Depth: 1},
	}

	require.NoError(t, store.SaveIndex(context.Background(), topics))

	got, err := store.LoadIndex(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Safety/Airbags", got[1].Path)
	assert.Equal(t, 1, got[1].Position)
	assert.True(t, got[0].Category)
}

func TestStore_LoadIndex_Missing(t *testing.T) {
	t.Parallel()

	store := fs.NewStore(t.TempDir())

	_, err := store.LoadIndex(context.Background())

	assert.Equal(t, ownmanual.ENOTFOUND, ownmanual.ErrorCode(err))
}

func TestStore_SaveTopic_WritesContentAndRaw(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := fs.NewStore(dir)
	topic := &ownmanual.Topic{Key: "k1", Label: "Airbags", Path: "Safety/Airbags", Depth: 1}

	err := store.SaveTopic(context.Background(), topic, "# Airbags\n\nBody.", []byte(`{"title":"Airbags"}`))

	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "Safety", "Airbags", "content.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "key: k1")
	assert.Contains(t, string(content), "# Airbags")

	raw, err := os.ReadFile(filepath.Join(dir, "Safety", "Airbags", "raw.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Airbags"}`, string(raw))
}

func TestStore_SaveTopic_Idempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := fs.NewStore(dir)
	topic := &ownmanual.Topic{Key: "k1", Label: "Airbags", Path: "Airbags"}

	require.NoError(t, store.SaveTopic(context.Background(), topic, "Body.", []byte(`{}`)))
	first, err := os.ReadFile(filepath.Join(dir, "Airbags", "content.md"))
	require.NoError(t, err)

	// Saving the same content again produces byte-identical files
	require.NoError(t, store.SaveTopic(context.Background(), topic, "Body.", []byte(`{}`)))
	second, err := os.ReadFile(filepath.Join(dir, "Airbags", "content.md"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestStore_LoadMarkdown_StripsFrontmatter(t *testing.T) {
	t.Parallel()

	store := fs.NewStore(t.TempDir())
	topic := &ownmanual.Topic{Key: "k1", Label: "Brakes", Path: "Brakes"}

	require.NoError(t, store.SaveTopic(context.Background(), topic, "# Brakes\n\nUse them.", nil))

	got, err := store.LoadMarkdown(context.Background(), topic)

	require.NoError(t, err)
	assert.Equal(t, "# Brakes\n\nUse them.", got)
}

func TestStore_LoadMarkdown_Missing(t *testing.T) {
	t.Parallel()

	store := fs.NewStore(t.TempDir())
	topic := &ownmanual.Topic{Key: "k1", Label: "Brakes", Path: "Brakes"}

	_, err := store.LoadMarkdown(context.Background(), topic)

	assert.Equal(t, ownmanual.ENOTFOUND, ownmanual.ErrorCode(err))
	assert.Contains(t, ownmanual.ErrorMessage(err), "Brakes")
}

func TestStore_HasTopic(t *testing.T) {
	t.Parallel()

	store := fs.NewStore(t.TempDir())
	topic := &ownmanual.Topic{Key: "k1", Label: "Brakes", Path: "Brakes"}

	assert.False(t, store.HasTopic(topic))

	require.NoError(t, store.SaveTopic(context.Background(), topic, "x", nil))

	assert.True(t, store.HasTopic(topic))
}

func TestStore_Images(t *testing.T) {
	t.Parallel()

	store := fs.NewStore(t.TempDir())
	payload := []byte{0x89, 'P', 'N', 'G'}

	assert.False(t, store.HasImage("a.png"))

	require.NoError(t, store.SaveImage(context.Background(), "a.png", payload))

	assert.True(t, store.HasImage("a.png"))

	got, err := store.LoadImage(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	_, err = store.LoadImage(context.Background(), "missing.png")
	assert.Equal(t, ownmanual.ENOTFOUND, ownmanual.ErrorCode(err))
}

func TestFormatTopic_NoTimestamps(t *testing.T) {
	t.Parallel()

	topic := &ownmanual.Topic{Key: "k1", Label: "Brakes", Path: "Brakes"}

	got := fs.FormatTopic(topic, "Body.")

	assert.Equal(t, "---\nkey: k1\ntitle: Brakes\n---\n\nBody.", got)
}
