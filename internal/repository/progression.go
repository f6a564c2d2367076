package repository

import (
	"context"
	"time"

	"github.com/examforge/prepcore/internal/entity"
)

// ProgressionRepository abstracts persistence for XP records to keep
// usecases storage agnostic. Award and AwardOnce must run their
// read-increment-recompute sequence as one atomic unit; concurrent awards
// for the same user may never lose an update.
type ProgressionRepository interface {
	// Award atomically adds amount to the user's total, recomputes the
	// stored level and appends a history entry.
	Award(ctx context.Context, userID int64, amount int, source string) (*entity.ProgressionRecord, error)

	// AwardOnce behaves like Award but first checks, inside the same
	// transaction, whether a history entry with this (userID, source)
	// already exists. It returns applied=false and the unchanged record
	// when the award was seen before.
	AwardOnce(ctx context.Context, userID int64, amount int, source string) (record *entity.ProgressionRecord, applied bool, err error)

	// Get returns the user's record, or nil when no XP was ever awarded.
	Get(ctx context.Context, userID int64) (*entity.ProgressionRecord, error)

	// History lists the newest ledger entries for a user.
	History(ctx context.Context, userID int64, limit int32) ([]entity.XPHistoryEntry, error)

	// ActivityDays returns the distinct UTC dates on which the user earned
	// any XP, newest first. Input for streak reconciliation.
	ActivityDays(ctx context.Context, userID int64) ([]time.Time, error)
}
