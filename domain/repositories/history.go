package repositories

import (
	"context"

	"github.com/Tagaingne/dream-synthesizer/domain/entities"
)

// DreamHistory is the append-only log of dream records. Appends are
// whole-log load-push-store transactions; entries are never updated or
// deleted. Single-writer: concurrent appends from multiple processes are
// out of contract.
type DreamHistory interface {
	// Append adds one record to the end of the log
	Append(ctx context.Context, record *entities.DreamRecord) error
	// ListAll returns every record in original append order; an absent
	// backing store means an empty history, not an error
	ListAll(ctx context.Context) ([]entities.DreamRecord, error)
}
