package repository

import (
	"context"
	"time"

	"github.com/examforge/prepcore/internal/entity"
)

// StreakRepository abstracts persistence for streak records. Touch must
// lock the row for the duration of the day comparison so two activity
// completions on the same day cannot double-increment.
type StreakRepository interface {
	// Touch applies one activity at now to the user's streak, creating the
	// record on first use. changed is false for same-day repeats.
	Touch(ctx context.Context, userID int64, now time.Time) (record *entity.StreakRecord, changed bool, err error)

	// Get returns the user's streak record, or nil when none exists yet.
	Get(ctx context.Context, userID int64) (*entity.StreakRecord, error)

	// SetCurrent overwrites the current streak, raising the longest streak
	// if needed. Used by reconciliation only.
	SetCurrent(ctx context.Context, userID int64, current int32) (*entity.StreakRecord, error)

	// UserIDs lists every user with a streak record.
	UserIDs(ctx context.Context) ([]int64, error)
}
