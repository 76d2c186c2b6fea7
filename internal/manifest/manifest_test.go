package manifest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id string, started time.Time) Record {
	return Record{
		BuildID:      id,
		StartedAt:    started,
		DurationMS:   42,
		FilesScanned: 4,
		Pages:        2,
		Files:        2,
		OutputPath:   "/project/index.html",
		OutputSHA256: "deadbeef",
	}
}

func TestAppendAndRecent(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(ctx, record("first", base)))
	require.NoError(t, store.Append(ctx, record("second", base.Add(time.Hour))))

	records, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "second", records[0].BuildID)
	assert.Equal(t, "first", records[1].BuildID)
	assert.Equal(t, base, records[1].StartedAt)
	assert.Equal(t, int64(42), records[0].DurationMS)
	assert.Equal(t, 4, records[0].FilesScanned)
}

func TestRecentLimit(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, record("build", time.Now())))
	}

	records, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestOpenPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), record("persisted", time.Now())))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "persisted", records[0].BuildID)
}
