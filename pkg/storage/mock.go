package storage

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/yingzhou/pkg/state"
)

// MockStorage is an in-memory Storage for tests and the memory backend.
type MockStorage struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]state.SaveRecord
	pingError error
	now       func() time.Time
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		records: make(map[uuid.UUID]state.SaveRecord),
		now:     time.Now,
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveRecord(ctx context.Context, rec *state.SaveRecord) error {
	if rec == nil {
		return errors.New("save record cannot be nil")
	}
	if rec.ID == uuid.Nil {
		return errors.New("save record has no id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.UpdatedAt = m.now()
	m.records[rec.ID] = clone(rec)
	return nil
}

func (m *MockStorage) LoadRecord(ctx context.Context, id uuid.UUID) (*state.SaveRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	out := clone(&rec)
	return &out, nil
}

func (m *MockStorage) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *MockStorage) ListRecords(ctx context.Context) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs := make([]state.SaveRecord, 0, len(m.records))
	for _, r := range m.records {
		recs = append(recs, r)
	}
	slices.SortFunc(recs, func(a, b state.SaveRecord) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	ids := make([]uuid.UUID, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	return ids, nil
}

// clone copies rec so callers cannot mutate stored slices.
func clone(rec *state.SaveRecord) state.SaveRecord {
	out := *rec
	out.CollectedFragments = slices.Clone(rec.CollectedFragments)
	out.CompletedMiniGames = slices.Clone(rec.CompletedMiniGames)
	out.UnlockedDialogues = slices.Clone(rec.UnlockedDialogues)
	return out
}
