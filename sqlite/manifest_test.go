package sqlite_test

import (
	"context"
	"testing"

	"github.com/fkarasek/ownmanual"
	"github.com/fkarasek/ownmanual/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustOpenDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})
	return db
}

func TestManifestService_RunLifecycle(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewManifestService(mustOpenDB(t))
	ctx := context.Background()

	run, err := svc.BeginRun(ctx, "root_key")
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.False(t, run.StartedAt.IsZero())

	run.Fetched = 12
	run.Skipped = 1
	run.Categories = 3
	run.Images = 40
	require.NoError(t, svc.FinishRun(ctx, run))

	last, err := svc.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, run.ID, last.ID)
	assert.Equal(t, "root_key", last.RootKey)
	assert.Equal(t, 12, last.Fetched)
	assert.Equal(t, 1, last.Skipped)
	assert.Equal(t, 40, last.Images)
	assert.False(t, last.FinishedAt.IsZero())
}

func TestManifestService_LastRun_NoRuns(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewManifestService(mustOpenDB(t))

	_, err := svc.LastRun(context.Background())

	assert.Equal(t, ownmanual.ENOTFOUND, ownmanual.ErrorCode(err))
}

func TestManifestService_FinishRun_UnknownRun(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewManifestService(mustOpenDB(t))

	err := svc.FinishRun(context.Background(), &ownmanual.Run{ID: "nope"})

	assert.Equal(t, ownmanual.ENOTFOUND, ownmanual.ErrorCode(err))
}

func TestManifestService_TopicRecords(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewManifestService(mustOpenDB(t))
	ctx := context.Background()

	run, err := svc.BeginRun(ctx, "root_key")
	require.NoError(t, err)

	// Recorded out of order; read back in TOC order
	require.NoError(t, svc.RecordTopic(ctx, &ownmanual.TopicRecord{
		RunID: run.ID, Key: "k2", Label: "Seat belts", Path: "Safety/Seat belts",
		Position: 2, Status: ownmanual.StatusSkipped, Error: "HTTP 502",
	}))
	require.NoError(t, svc.RecordTopic(ctx, &ownmanual.TopicRecord{
		RunID: run.ID, Key: "k1", Label: "Airbags", Path: "Safety/Airbags",
		Position: 1, Status: ownmanual.StatusOK, ContentHash: "a1b2c3d4e5f60718",
	}))
	require.NoError(t, svc.RecordTopic(ctx, &ownmanual.TopicRecord{
		RunID: run.ID, Label: "Safety", Path: "Safety",
		Position: 0, Status: ownmanual.StatusCategory,
	}))

	recs, err := svc.FindTopicRecords(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "Safety", recs[0].Label)
	assert.Equal(t, ownmanual.StatusOK, recs[1].Status)
	assert.Equal(t, "HTTP 502", recs[2].Error)
	assert.False(t, recs[1].FetchedAt.IsZero())
}

func TestManifestService_RecordTopic_Validates(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewManifestService(mustOpenDB(t))

	err := svc.RecordTopic(context.Background(), &ownmanual.TopicRecord{
		RunID: "r", Path: "p", Status: "bogus",
	})

	assert.Equal(t, ownmanual.EINVALID, ownmanual.ErrorCode(err))
}
