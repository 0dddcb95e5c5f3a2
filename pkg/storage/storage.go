package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jwebster45206/yingzhou/pkg/state"
)

// Storage persists save records between play sessions.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// SaveRecord writes rec under rec.ID and stamps UpdatedAt.
	SaveRecord(ctx context.Context, rec *state.SaveRecord) error
	// LoadRecord returns nil, nil when no record exists for id.
	LoadRecord(ctx context.Context, id uuid.UUID) (*state.SaveRecord, error)
	DeleteRecord(ctx context.Context, id uuid.UUID) error
	// ListRecords returns the IDs of all stored records, most recently
	// updated first.
	ListRecords(ctx context.Context) ([]uuid.UUID, error)
}
