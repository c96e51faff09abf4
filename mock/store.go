package mock

import (
	"context"

	"github.com/fkarasek/ownmanual"
)

var _ ownmanual.TopicStore = (*TopicStore)(nil)

// TopicStore is a mock implementation of ownmanual.TopicStore.
type TopicStore struct {
	SaveIndexFn    func(ctx context.Context, topics []*ownmanual.Topic) error
	LoadIndexFn    func(ctx context.Context) ([]*ownmanual.Topic, error)
	SaveTopicFn    func(ctx context.Context, topic *ownmanual.Topic, markdown string, raw []byte) error
	LoadMarkdownFn func(ctx context.Context, topic *ownmanual.Topic) (string, error)
	LoadRawFn      func(ctx context.Context, topic *ownmanual.Topic) ([]byte, error)
	HasTopicFn     func(topic *ownmanual.Topic) bool
}

func (s *TopicStore) SaveIndex(ctx context.Context, topics []*ownmanual.Topic) error {
	return s.SaveIndexFn(ctx, topics)
}

func (s *TopicStore) LoadIndex(ctx context.Context) ([]*ownmanual.Topic, error) {
	return s.LoadIndexFn(ctx)
}

func (s *TopicStore) SaveTopic(ctx context.Context, topic *ownmanual.Topic, markdown string, raw []byte) error {
	return s.SaveTopicFn(ctx, topic, markdown, raw)
}

func (s *TopicStore) LoadMarkdown(ctx context.Context, topic *ownmanual.Topic) (string, error) {
	return s.LoadMarkdownFn(ctx, topic)
}

func (s *TopicStore) LoadRaw(ctx context.Context, topic *ownmanual.Topic) ([]byte, error) {
	return s.LoadRawFn(ctx, topic)
}

func (s *TopicStore) HasTopic(topic *ownmanual.Topic) bool {
	return s.HasTopicFn(topic)
}

var _ ownmanual.ImageStore = (*ImageStore)(nil)

// ImageStore is a mock implementation of ownmanual.ImageStore.
type ImageStore struct {
	SaveImageFn func(ctx context.Context, filename string, data []byte) error
	LoadImageFn func(ctx context.Context, filename string) ([]byte, error)
	HasImageFn  func(filename string) bool
}

func (s *ImageStore) SaveImage(ctx context.Context, filename string, data []byte) error {
	return s.SaveImageFn(ctx, filename, data)
}

func (s *ImageStore) LoadImage(ctx context.Context, filename string) ([]byte, error) {
	return s.LoadImageFn(ctx, filename)
}

func (s *ImageStore) HasImage(filename string) bool {
	return s.HasImageFn(filename)
}
