package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/yingzhou/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStorage_SaveAndLoad(t *testing.T) {
	m := NewMockStorage()
	ctx := context.Background()

	rec := state.NewSaveRecord()
	rec.CurrentEpoch = "EMERGENCE"
	rec.FragmentsCollected = 1
	rec.CollectedFragments = []string{"0"}
	require.NoError(t, m.SaveRecord(ctx, rec))
	assert.False(t, rec.UpdatedAt.IsZero())

	loaded, err := m.LoadRecord(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, rec.ID, loaded.ID)
	assert.Equal(t, "EMERGENCE", loaded.CurrentEpoch)
	assert.Equal(t, []string{"0"}, loaded.CollectedFragments)

	loaded.CollectedFragments[0] = "5"
	again, err := m.LoadRecord(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"0"}, again.CollectedFragments)
}

func TestMockStorage_LoadMissing(t *testing.T) {
	m := NewMockStorage()
	loaded, err := m.LoadRecord(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestMockStorage_SaveRejectsBadRecord(t *testing.T) {
	m := NewMockStorage()
	assert.Error(t, m.SaveRecord(context.Background(), nil))
	assert.Error(t, m.SaveRecord(context.Background(), &state.SaveRecord{}))
}

func TestMockStorage_DeleteAndList(t *testing.T) {
	m := NewMockStorage()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	m.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first, second := state.NewSaveRecord(), state.NewSaveRecord()
	require.NoError(t, m.SaveRecord(ctx, first))
	require.NoError(t, m.SaveRecord(ctx, second))

	ids, err := m.ListRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second.ID, first.ID}, ids)

	require.NoError(t, m.DeleteRecord(ctx, second.ID))
	ids, err = m.ListRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID}, ids)
}

func TestMockStorage_Ping(t *testing.T) {
	m := NewMockStorage()
	assert.NoError(t, m.Ping(context.Background()))

	m.SetPingError(errors.New("down"))
	assert.EqualError(t, m.Ping(context.Background()), "down")
}
