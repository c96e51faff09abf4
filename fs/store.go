// Package fs provides file-based storage for fetched manual content.
//
// The on-disk layout mirrors the manual's hierarchy:
//
//	<dir>/index.json                 ordered topic index
//	<dir>/images/<filename>          shared image files
//	<dir>/<topic path>/content.md    markdown content
//	<dir>/<topic path>/raw.json      raw API response
//
// Files are written in place (no temp-and-rename) so interrupted runs
// can be resumed, and all writes are deterministic: fetching unchanged
// remote content twice produces byte-identical files.
package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/fkarasek/ownmanual"
)

// Compile-time interface verification.
var (
	_ ownmanual.TopicStore = (*Store)(nil)
	_ ownmanual.ImageStore = (*Store)(nil)
)

// Store persists topics and images under a base directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory is created on
// first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the base directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// SaveIndex writes the ordered topic index as index.json.
func (s *Store) SaveIndex(ctx context.Context, topics []*ownmanual.Topic) error {
	for _, t := range topics {
		if err := t.Validate(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(topics, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	return os.WriteFile(s.indexPath(), data, 0644)
}

// LoadIndex reads the topic index written by a previous fetch.
func (s *Store) LoadIndex(ctx context.Context) ([]*ownmanual.Topic, error) {
	data, err := os.ReadFile(s.indexPath())
	if os.IsNotExist(err) {
		return nil, ownmanual.Errorf(ownmanual.ENOTFOUND, "no topic index at %q: run fetch first", s.indexPath())
	}
	if err != nil {
		return nil, err
	}

	var topics []*ownmanual.Topic
	if err := json.Unmarshal(data, &topics); err != nil {
		return nil, ownmanual.Errorf(ownmanual.EINVALID, "corrupt topic index %q: %v", s.indexPath(), err)
	}

	return topics, nil
}

// SaveTopic writes a topic's markdown content and raw API response.
func (s *Store) SaveTopic(ctx context.Context, topic *ownmanual.Topic, markdown string, raw []byte) error {
	if err := topic.Validate(); err != nil {
		return err
	}

	dir := s.topicDir(topic)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	content := FormatTopic(topic, markdown)
	if err := os.WriteFile(filepath.Join(dir, "content.md"), []byte(content), 0644); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "raw.json"), raw, 0644)
}

// LoadMarkdown reads a topic's markdown content, without frontmatter.
func (s *Store) LoadMarkdown(ctx context.Context, topic *ownmanual.Topic) (string, error) {
	path := filepath.Join(s.topicDir(topic), "content.md")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", ownmanual.Errorf(ownmanual.ENOTFOUND, "topic %q has no content at %q", topic.Label, path)
	}
	if err != nil {
		return "", err
	}

	return stripFrontmatter(string(data)), nil
}

// LoadRaw reads a topic's raw API response.
func (s *Store) LoadRaw(ctx context.Context, topic *ownmanual.Topic) ([]byte, error) {
	path := filepath.Join(s.topicDir(topic), "raw.json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ownmanual.Errorf(ownmanual.ENOTFOUND, "topic %q has no raw content at %q", topic.Label, path)
	}
	return data, err
}

// HasTopic reports whether the topic's content exists on disk.
func (s *Store) HasTopic(topic *ownmanual.Topic) bool {
	_, err := os.Stat(filepath.Join(s.topicDir(topic), "content.md"))
	return err == nil
}

// SaveImage writes an image payload to the shared images directory.
func (s *Store) SaveImage(ctx context.Context, filename string, data []byte) error {
	dir := filepath.Join(s.dir, "images")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, filename), data, 0644)
}

// LoadImage reads a previously saved image.
func (s *Store) LoadImage(ctx context.Context, filename string) ([]byte, error) {
	path := filepath.Join(s.dir, "images", filename)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ownmanual.Errorf(ownmanual.ENOTFOUND, "image %q not found at %q", filename, path)
	}
	return data, err
}

// HasImage reports whether the image exists on disk.
func (s *Store) HasImage(filename string) bool {
	_, err := os.Stat(filepath.Join(s.dir, "images", filename))
	return err == nil
}

func (s *Store) indexPath() string {
	return filepath.Join(s.dir, "index.json")
}

func (s *Store) topicDir(topic *ownmanual.Topic) string {
	return filepath.Join(s.dir, filepath.FromSlash(topic.Path))
}

// FormatTopic formats a topic's content file with YAML frontmatter.
// No timestamps: the file must be byte-identical across runs when the
// content has not changed.
func FormatTopic(topic *ownmanual.Topic, markdown string) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("key: ")
	b.WriteString(topic.Key)
	b.WriteString("\ntitle: ")
	b.WriteString(topic.Label)
	b.WriteString("\n---\n\n")
	b.WriteString(markdown)
	return b.String()
}

// stripFrontmatter removes the leading YAML frontmatter block, if any.
func stripFrontmatter(content string) string {
	if !strings.HasPrefix(content, "---\n") {
		return content
	}
	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---\n")
	if end < 0 {
		return content
	}
	return strings.TrimPrefix(rest[end+len("\n---\n"):], "\n")
}
