// Package mock provides function-field mocks of the ownmanual interfaces
// for use in tests.
package mock

import (
	"context"

	"github.com/fkarasek/ownmanual"
)

var _ ownmanual.ManualClient = (*ManualClient)(nil)

// ManualClient is a mock implementation of ownmanual.ManualClient.
type ManualClient struct {
	TopicTreeFn    func(ctx context.Context, key string) (*ownmanual.TOC, error)
	TopicContentFn func(ctx context.Context, key string) (*ownmanual.TopicContent, error)
	ImageFn        func(ctx context.Context, url string) ([]byte, error)
}

func (c *ManualClient) TopicTree(ctx context.Context, key string) (*ownmanual.TOC, error) {
	return c.TopicTreeFn(ctx, key)
}

func (c *ManualClient) TopicContent(ctx context.Context, key string) (*ownmanual.TopicContent, error) {
	return c.TopicContentFn(ctx, key)
}

func (c *ManualClient) Image(ctx context.Context, url string) ([]byte, error) {
	return c.ImageFn(ctx, url)
}
