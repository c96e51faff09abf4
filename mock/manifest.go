package mock

import (
	"context"

	"github.com/fkarasek/ownmanual"
)

var _ ownmanual.ManifestService = (*ManifestService)(nil)

// ManifestService is a mock implementation of ownmanual.ManifestService.
type ManifestService struct {
	BeginRunFn         func(ctx context.Context, rootKey string) (*ownmanual.Run, error)
	RecordTopicFn      func(ctx context.Context, rec *ownmanual.TopicRecord) error
	FinishRunFn        func(ctx context.Context, run *ownmanual.Run) error
	LastRunFn          func(ctx context.Context) (*ownmanual.Run, error)
	FindTopicRecordsFn func(ctx context.Context, runID string) ([]*ownmanual.TopicRecord, error)
}

func (s *ManifestService) BeginRun(ctx context.Context, rootKey string) (*ownmanual.Run, error) {
	return s.BeginRunFn(ctx, rootKey)
}

func (s *ManifestService) RecordTopic(ctx context.Context, rec *ownmanual.TopicRecord) error {
	return s.RecordTopicFn(ctx, rec)
}

func (s *ManifestService) FinishRun(ctx context.Context, run *ownmanual.Run) error {
	return s.FinishRunFn(ctx, run)
}

func (s *ManifestService) LastRun(ctx context.Context) (*ownmanual.Run, error) {
	return s.LastRunFn(ctx)
}

func (s *ManifestService) FindTopicRecords(ctx context.Context, runID string) ([]*ownmanual.TopicRecord, error) {
	return s.FindTopicRecordsFn(ctx, runID)
}
