// Package slog provides logging decorators for ownmanual services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fkarasek/ownmanual"
)

// Ensure LoggingClient implements ownmanual.ManualClient.
var _ ownmanual.ManualClient = (*LoggingClient)(nil)

// LoggingClient wraps a ManualClient with debug logging.
type LoggingClient struct {
	next   ownmanual.ManualClient
	logger *slog.Logger
}

// NewLoggingClient creates a new LoggingClient.
func NewLoggingClient(next ownmanual.ManualClient, logger *slog.Logger) *LoggingClient {
	return &LoggingClient{next: next, logger: logger}
}

// TopicTree delegates to the wrapped client and logs the operation.
func (c *LoggingClient) TopicTree(ctx context.Context, key string) (toc *ownmanual.TOC, err error) {
	defer func(begin time.Time) {
		trees := 0
		if toc != nil {
			trees = len(toc.Trees)
		}
		c.logger.Debug("topic tree",
			"key", key,
			"trees", trees,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.TopicTree(ctx, key)
}

// TopicContent delegates to the wrapped client and logs the operation.
func (c *LoggingClient) TopicContent(ctx context.Context, key string) (content *ownmanual.TopicContent, err error) {
	defer func(begin time.Time) {
		size := 0
		if content != nil {
			size = len(content.Raw)
		}
		c.logger.Debug("topic content",
			"key", key,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.TopicContent(ctx, key)
}

// Image delegates to the wrapped client and logs the operation.
func (c *LoggingClient) Image(ctx context.Context, url string) (data []byte, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("image download",
			"url", url,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Image(ctx, url)
}
