package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(context.Background(), filepath.Join(t.TempDir(), "yingzhou.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStorage_SaveAndLoad(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	rec := sampleRecord()
	require.NoError(t, store.SaveRecord(ctx, rec))

	loaded, err := store.LoadRecord(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, rec.ID, loaded.ID)
	assert.Equal(t, "FLOURISH", loaded.CurrentEpoch)
	assert.Equal(t, rec.CollectedFragments, loaded.CollectedFragments)
	assert.Equal(t, 321.5, loaded.PlayTime)
}

func TestSQLiteStorage_Upsert(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	rec := sampleRecord()
	require.NoError(t, store.SaveRecord(ctx, rec))
	rec.CurrentEpoch = "COLLAPSE"
	rec.FragmentsCollected = 7
	require.NoError(t, store.SaveRecord(ctx, rec))

	loaded, err := store.LoadRecord(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "COLLAPSE", loaded.CurrentEpoch)

	ids, err := store.ListRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestSQLiteStorage_LoadMissing(t *testing.T) {
	store := openTestSQLite(t)
	loaded, err := store.LoadRecord(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSQLiteStorage_DeleteAndList(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	store.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}

	first, second := sampleRecord(), sampleRecord()
	require.NoError(t, store.SaveRecord(ctx, first))
	require.NoError(t, store.SaveRecord(ctx, second))

	ids, err := store.ListRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second.ID, first.ID}, ids)

	require.NoError(t, store.DeleteRecord(ctx, second.ID))
	ids, err = store.ListRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID}, ids)
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yingzhou.db")
	ctx := context.Background()

	store, err := NewSQLiteStorage(ctx, path, testLogger())
	require.NoError(t, err)
	rec := sampleRecord()
	require.NoError(t, store.SaveRecord(ctx, rec))
	require.NoError(t, store.Close())

	store, err = NewSQLiteStorage(ctx, path, testLogger())
	require.NoError(t, err)
	defer store.Close()

	loaded, err := store.LoadRecord(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, rec.ID, loaded.ID)
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage(context.Background(), " ", testLogger())
	assert.Error(t, err)
}
