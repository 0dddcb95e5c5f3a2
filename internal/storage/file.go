package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/yingzhou/pkg/state"
	"github.com/jwebster45206/yingzhou/pkg/storage"
)

// FileStorage writes each save record to <dir>/<id>.json.
type FileStorage struct {
	dir    string
	logger *slog.Logger
}

var _ storage.Storage = (*FileStorage)(nil)

// NewFileStorage creates dir if needed.
func NewFileStorage(dir string, logger *slog.Logger) (*FileStorage, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "./saves"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	return &FileStorage{dir: dir, logger: logger}, nil
}

func (f *FileStorage) path(id uuid.UUID) string {
	return filepath.Join(f.dir, id.String()+".json")
}

// Ping checks that the save directory is still there.
func (f *FileStorage) Ping(ctx context.Context) error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return fmt.Errorf("save directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("save path %s is not a directory", f.dir)
	}
	return nil
}

func (f *FileStorage) Close() error {
	return nil
}

// SaveRecord writes through a temp file and rename so a crash never leaves a
// half-written save.
func (f *FileStorage) SaveRecord(ctx context.Context, rec *state.SaveRecord) error {
	if rec == nil || rec.ID == uuid.Nil {
		return errors.New("save record must have an id")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	rec.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal save record: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, ".save-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp save: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write save: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close save: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path(rec.ID)); err != nil {
		f.logger.Error("Failed to save record", "uuid", rec.ID, "error", err)
		return fmt.Errorf("failed to save record: %w", err)
	}

	f.logger.Debug("Saved record", "uuid", rec.ID, "path", f.path(rec.ID))
	return nil
}

func (f *FileStorage) LoadRecord(ctx context.Context, id uuid.UUID) (*state.SaveRecord, error) {
	data, err := os.ReadFile(f.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.logger.Warn("Save record not found", "uuid", id)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read save record: %w", err)
	}

	var rec state.SaveRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		f.logger.Error("Failed to unmarshal save record", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal save record: %w", err)
	}
	if rec.ID == uuid.Nil {
		rec.ID = id
	}
	return &rec, nil
}

func (f *FileStorage) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	if err := os.Remove(f.path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete save record: %w", err)
	}
	return nil
}

// ListRecords orders saves by file modification time, newest first.
func (f *FileStorage) ListRecords(ctx context.Context) ([]uuid.UUID, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list save records: %w", err)
	}

	type item struct {
		id  uuid.UUID
		mod time.Time
	}
	var items []item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		id, err := uuid.Parse(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			f.logger.Warn("Failed to stat save file", "file", name, "error", err)
			continue
		}
		items = append(items, item{id: id, mod: info.ModTime()})
	}

	slices.SortFunc(items, func(a, b item) int {
		return b.mod.Compare(a.mod)
	})
	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.id
	}
	return ids, nil
}
