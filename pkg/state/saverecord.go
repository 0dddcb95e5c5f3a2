package state

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/yingzhou/pkg/epoch"
	"github.com/jwebster45206/yingzhou/pkg/fragment"
)

var ErrInvalidRecord = errors.New("invalid save record")

// SaveRecord is the flat progress record exchanged with the persistence layer.
// Field names follow the original save file so existing saves still load.
type SaveRecord struct {
	ID                 uuid.UUID `json:"id"`
	CurrentEpoch       string    `json:"currentEpoch"`
	FragmentsCollected int       `json:"fragmentsCollected"`
	CollectedFragments []string  `json:"collectedFragments"`
	CompletedMiniGames []string  `json:"completedMiniGames"`
	UnlockedDialogues  []string  `json:"unlockedDialogues"`
	PlayTime           float64   `json:"playTime"` // seconds
	UpdatedAt          time.Time `json:"updatedAt,omitzero"`
}

// NewSaveRecord returns the record of a fresh game.
func NewSaveRecord() *SaveRecord {
	return &SaveRecord{
		ID:                 uuid.New(),
		CurrentEpoch:       epoch.Genesis.String(),
		CollectedFragments: []string{},
		CompletedMiniGames: []string{},
		UnlockedDialogues:  []string{},
	}
}

// Validate checks that the record can seed a session.
func (r *SaveRecord) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidRecord)
	}
	if _, err := epoch.Parse(r.CurrentEpoch); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if r.FragmentsCollected < 0 {
		return fmt.Errorf("%w: negative fragment count %d", ErrInvalidRecord, r.FragmentsCollected)
	}
	if len(r.CollectedFragments) > r.FragmentsCollected {
		return fmt.Errorf("%w: %d fragments listed but only %d counted",
			ErrInvalidRecord, len(r.CollectedFragments), r.FragmentsCollected)
	}
	seen := make(map[string]bool, len(r.CollectedFragments))
	for _, key := range r.CollectedFragments {
		f, err := fragment.LookupKey(key)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
		}
		if key != f.Key() {
			return fmt.Errorf("%w: fragment key %q should be written %q", ErrInvalidRecord, key, f.Key())
		}
		if seen[key] {
			return fmt.Errorf("%w: fragment %q listed twice", ErrInvalidRecord, key)
		}
		seen[key] = true
	}
	if math.IsNaN(r.PlayTime) || math.IsInf(r.PlayTime, 0) || r.PlayTime < 0 {
		return fmt.Errorf("%w: play time %v", ErrInvalidRecord, r.PlayTime)
	}
	return nil
}
