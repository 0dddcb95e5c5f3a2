package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/yingzhou/pkg/state"
	"github.com/jwebster45206/yingzhou/pkg/storage"
	_ "modernc.org/sqlite"
)

const createSaveRecords = `CREATE TABLE IF NOT EXISTS save_records (
	id         TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStorage keeps each save record as a JSON body in one table.
type SQLiteStorage struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ storage.Storage = (*SQLiteStorage)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// NewSQLiteStorage opens the database at path and creates the schema.
func NewSQLiteStorage(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStorage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, createSaveRecords); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStorage{db: db, logger: logger, now: time.Now}, nil
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStorage) SaveRecord(ctx context.Context, rec *state.SaveRecord) error {
	if rec == nil || rec.ID == uuid.Nil {
		return errors.New("save record must have an id")
	}
	rec.UpdatedAt = s.now()

	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal save record: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO save_records (id, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		rec.ID.String(), string(body), toMillis(rec.UpdatedAt),
	)
	if err != nil {
		s.logger.Error("Failed to save record", "uuid", rec.ID, "error", err)
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) LoadRecord(ctx context.Context, id uuid.UUID) (*state.SaveRecord, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM save_records WHERE id = ?`, id.String()).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("Save record not found", "uuid", id)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load save record: %w", err)
	}

	var rec state.SaveRecord
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal save record: %w", err)
	}
	return &rec, nil
}

func (s *SQLiteStorage) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM save_records WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete save record: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) ListRecords(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM save_records ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list save records: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan save record id: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			s.logger.Warn("Skipping save record with bad id", "id", raw)
			continue
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list save records: %w", err)
	}
	return ids, nil
}
