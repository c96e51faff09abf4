package ownmanual

import (
	"context"
	"time"
)

// Topic fetch outcomes recorded in the manifest.
const (
	StatusOK       = "ok"
	StatusSkipped  = "skipped"
	StatusCategory = "category"
)

// Run records one execution of the fetch stage.
type Run struct {
	ID         string    `json:"id"`
	RootKey    string    `json:"rootKey"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	Fetched    int `json:"fetched"`
	Skipped    int `json:"skipped"`
	Categories int `json:"categories"`
	Images     int `json:"images"`
}

// TopicRecord records the outcome of fetching a single topic within a run.
// Skipped topics carry the error text so the operator can retry manually.
type TopicRecord struct {
	RunID       string    `json:"runId"`
	Key         string    `json:"key"`
	Label       string    `json:"label"`
	Path        string    `json:"path"`
	Position    int       `json:"position"`
	Status      string    `json:"status"`
	ContentHash string    `json:"contentHash"`
	Error       string    `json:"error"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *TopicRecord) Validate() error {
	if r.RunID == "" {
		return Errorf(EINVALID, "topic record run ID required")
	}
	if r.Path == "" {
		return Errorf(EINVALID, "topic record path required")
	}
	switch r.Status {
	case StatusOK, StatusSkipped, StatusCategory:
	default:
		return Errorf(EINVALID, "topic record status %q invalid", r.Status)
	}
	return nil
}

// ManifestService records fetch runs and their per-topic outcomes.
// It backs the end-of-run summary and the status subcommand.
type ManifestService interface {
	// BeginRun creates a new run for the given root topic key.
	BeginRun(ctx context.Context, rootKey string) (*Run, error)

	// RecordTopic records the outcome of one topic within a run.
	RecordTopic(ctx context.Context, rec *TopicRecord) error

	// FinishRun stamps the run finished and persists its counters.
	FinishRun(ctx context.Context, run *Run) error

	// LastRun returns the most recently started run.
	// Returns ENOTFOUND if no run has been recorded.
	LastRun(ctx context.Context) (*Run, error)

	// FindTopicRecords returns all topic records for a run in TOC order.
	FindTopicRecords(ctx context.Context, runID string) ([]*TopicRecord, error)
}
