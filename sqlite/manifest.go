package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fkarasek/ownmanual"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ ownmanual.ManifestService = (*ManifestService)(nil)

// ManifestService implements ownmanual.ManifestService using SQLite.
type ManifestService struct {
	db *DB
}

// NewManifestService creates a new ManifestService.
func NewManifestService(db *DB) *ManifestService {
	return &ManifestService{db: db}
}

// BeginRun creates a new run for the given root topic key.
func (s *ManifestService) BeginRun(ctx context.Context, rootKey string) (*ownmanual.Run, error) {
	if rootKey == "" {
		return nil, ownmanual.Errorf(ownmanual.EINVALID, "run root key required")
	}

	run := &ownmanual.Run{
		ID:        uuid.New().String(),
		RootKey:   rootKey,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, root_key, started_at)
		VALUES (?, ?, ?)
	`, run.ID, run.RootKey, run.StartedAt.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}

	return run, nil
}

// RecordTopic records the outcome of one topic within a run.
func (s *ManifestService) RecordTopic(ctx context.Context, rec *ownmanual.TopicRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	rec.FetchedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO topics (run_id, key, label, path, position, status, content_hash, error, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.RunID, rec.Key, rec.Label, rec.Path, rec.Position, rec.Status,
		rec.ContentHash, rec.Error, rec.FetchedAt.Format(time.RFC3339))

	return err
}

// FinishRun stamps the run finished and persists its counters.
func (s *ManifestService) FinishRun(ctx context.Context, run *ownmanual.Run) error {
	run.FinishedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, fetched = ?, skipped = ?, categories = ?, images = ?
		WHERE id = ?
	`, run.FinishedAt.Format(time.RFC3339), run.Fetched, run.Skipped,
		run.Categories, run.Images, run.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ownmanual.Errorf(ownmanual.ENOTFOUND, "run %q not found", run.ID)
	}

	return nil
}

// LastRun returns the most recently started run.
func (s *ManifestService) LastRun(ctx context.Context) (*ownmanual.Run, error) {
	var run ownmanual.Run
	var startedAt, finishedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, root_key, started_at, finished_at, fetched, skipped, categories, images
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`).Scan(&run.ID, &run.RootKey, &startedAt, &finishedAt,
		&run.Fetched, &run.Skipped, &run.Categories, &run.Images)

	if err == sql.ErrNoRows {
		return nil, ownmanual.Errorf(ownmanual.ENOTFOUND, "no fetch runs recorded")
	}
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	if finishedAt != "" {
		if run.FinishedAt, err = time.Parse(time.RFC3339, finishedAt); err != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", err)
		}
	}

	return &run, nil
}

// FindTopicRecords returns all topic records for a run in TOC order.
func (s *ManifestService) FindTopicRecords(ctx context.Context, runID string) ([]*ownmanual.TopicRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, key, label, path, position, status, content_hash, error, fetched_at
		FROM topics
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*ownmanual.TopicRecord
	for rows.Next() {
		var rec ownmanual.TopicRecord
		var fetchedAt string

		if err := rows.Scan(&rec.RunID, &rec.Key, &rec.Label, &rec.Path, &rec.Position,
			&rec.Status, &rec.ContentHash, &rec.Error, &fetchedAt); err != nil {
			return nil, err
		}

		if rec.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt); err != nil {
			return nil, fmt.Errorf("failed to parse fetched_at: %w", err)
		}

		recs = append(recs, &rec)
	}

	return recs, rows.Err()
}
