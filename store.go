package ownmanual

import "context"

// TopicStore persists fetched topics and the table of contents index.
// Files are written in place so that interrupted runs can be resumed;
// saved files are deterministic, making repeated fetches of unchanged
// remote content byte-identical.
type TopicStore interface {
	// SaveIndex writes the ordered topic index.
	SaveIndex(ctx context.Context, topics []*Topic) error

	// LoadIndex reads the topic index written by a previous fetch.
	// Returns ENOTFOUND if no index exists.
	LoadIndex(ctx context.Context) ([]*Topic, error)

	// SaveTopic writes a topic's markdown content and raw API response.
	SaveTopic(ctx context.Context, topic *Topic, markdown string, raw []byte) error

	// LoadMarkdown reads a topic's markdown content.
	// Returns ENOTFOUND if the topic was never fetched.
	LoadMarkdown(ctx context.Context, topic *Topic) (string, error)

	// LoadRaw reads a topic's raw API response.
	// Returns ENOTFOUND if the topic was never fetched.
	LoadRaw(ctx context.Context, topic *Topic) ([]byte, error)

	// HasTopic reports whether the topic's content exists on disk.
	HasTopic(topic *Topic) bool
}

// ImageStore persists downloaded images in a directory shared by all
// topics. Filenames are deterministic (see ImageFilename), so the store
// doubles as the cross-run image cache.
type ImageStore interface {
	// SaveImage writes an image payload under the given filename.
	SaveImage(ctx context.Context, filename string, data []byte) error

	// LoadImage reads a previously saved image.
	// Returns ENOTFOUND if the image does not exist.
	LoadImage(ctx context.Context, filename string) ([]byte, error)

	// HasImage reports whether the image exists on disk.
	HasImage(filename string) bool
}
