package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStorage(dir, testLogger())
	require.NoError(t, err)
	ctx := context.Background()

	rec := sampleRecord()
	require.NoError(t, store.SaveRecord(ctx, rec))

	data, err := os.ReadFile(filepath.Join(dir, rec.ID.String()+".json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"currentEpoch": "FLOURISH"`)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".save-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)

	loaded, err := store.LoadRecord(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, rec.FragmentsCollected, loaded.FragmentsCollected)
	assert.Equal(t, rec.CompletedMiniGames, loaded.CompletedMiniGames)
}

func TestFileStorage_Overwrite(t *testing.T) {
	store, err := NewFileStorage(t.TempDir(), testLogger())
	require.NoError(t, err)
	ctx := context.Background()

	rec := sampleRecord()
	require.NoError(t, store.SaveRecord(ctx, rec))
	rec.CurrentEpoch = "ENTROPY"
	rec.FragmentsCollected = 6
	require.NoError(t, store.SaveRecord(ctx, rec))

	loaded, err := store.LoadRecord(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "ENTROPY", loaded.CurrentEpoch)
	assert.Equal(t, 6, loaded.FragmentsCollected)
}

func TestFileStorage_LoadMissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStorage(dir, testLogger())
	require.NoError(t, err)
	ctx := context.Background()

	loaded, err := store.LoadRecord(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	id := uuid.New()
	require.NoError(t, os.WriteFile(filepath.Join(dir, id.String()+".json"), []byte("[]"), 0o644))
	_, err = store.LoadRecord(ctx, id)
	assert.Error(t, err)
}

func TestFileStorage_DeleteAndList(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStorage(dir, testLogger())
	require.NoError(t, err)
	ctx := context.Background()

	first, second := sampleRecord(), sampleRecord()
	require.NoError(t, store.SaveRecord(ctx, first))
	require.NoError(t, store.SaveRecord(ctx, second))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, first.ID.String()+".json"), old, old))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yingzhou_save.json"), []byte("{}"), 0o644))

	ids, err := store.ListRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second.ID, first.ID}, ids)

	require.NoError(t, store.DeleteRecord(ctx, second.ID))
	require.NoError(t, store.DeleteRecord(ctx, second.ID), "deleting twice is fine")

	ids, err = store.ListRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID}, ids)
}

func TestFileStorage_Ping(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "saves")
	store, err := NewFileStorage(dir, testLogger())
	require.NoError(t, err)
	require.NoError(t, store.Ping(context.Background()))

	require.NoError(t, os.RemoveAll(dir))
	assert.Error(t, store.Ping(context.Background()))
}
