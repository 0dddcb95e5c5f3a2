package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/yingzhou/pkg/state"
)

// ResumeSession loads the record for id and rebuilds its session. A missing
// record starts a fresh game that will save under id; uuid.Nil always starts
// fresh.
func ResumeSession(ctx context.Context, store Storage, id uuid.UUID, logger *slog.Logger, opts ...state.Option) (*state.Session, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts = append([]state.Option{state.WithLogger(logger)}, opts...)

	if id == uuid.Nil {
		s := state.NewSession(opts...)
		logger.Info("Started new session", "session_id", s.ID())
		return s, nil
	}

	rec, err := store.LoadRecord(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load save %s: %w", id, err)
	}
	if rec == nil {
		logger.Warn("Save not found, starting fresh", "session_id", id)
		return state.NewSession(append(opts, state.WithID(id))...), nil
	}
	if rec.ID == uuid.Nil {
		rec.ID = id
	}
	return state.FromSaveRecord(rec, opts...)
}
