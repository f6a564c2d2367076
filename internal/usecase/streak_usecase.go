package usecase

import (
	"context"
	"time"

	"github.com/examforge/prepcore/internal/entity"
	"github.com/examforge/prepcore/internal/repository"
)

// StreakStatus is the caller-facing outcome of a streak update.
type StreakStatus struct {
	CurrentStreak int32
	LongestStreak int32
	// MilestoneHit fires only on the update that reaches a milestone, so
	// the surrounding application can celebrate exactly once.
	MilestoneHit bool
}

// StreakUsecase encapsulates business logic for daily activity streaks.
type StreakUsecase interface {
	// UpdateStreak records one completed activity. Safe to call multiple
	// times a day; only the first call per UTC day mutates the record.
	UpdateStreak(ctx context.Context, userID int64) (*StreakStatus, error)

	// Reconcile recomputes the user's current streak from their XP
	// history and repairs the stored record on drift. Returns the derived
	// value.
	Reconcile(ctx context.Context, userID int64) (int32, error)

	// ReconcileAll runs Reconcile for every known user and returns how
	// many records were repaired.
	ReconcileAll(ctx context.Context) (int, error)
}

// NewStreakUsecase wires the repositories with default behaviour.
func NewStreakUsecase(streaks repository.StreakRepository, progression repository.ProgressionRepository) StreakUsecase {
	return &streakUsecase{
		streaks:     streaks,
		progression: progression,
		clock:       time.Now,
	}
}

type streakUsecase struct {
	streaks     repository.StreakRepository
	progression repository.ProgressionRepository
	clock       func() time.Time
}

func (u *streakUsecase) UpdateStreak(ctx context.Context, userID int64) (*StreakStatus, error) {
	if userID <= 0 {
		return nil, entity.ErrInvalidUserID
	}
	record, changed, err := u.streaks.Touch(ctx, userID, u.clock())
	if err != nil {
		return nil, err
	}
	return &StreakStatus{
		CurrentStreak: record.CurrentStreak,
		LongestStreak: record.LongestStreak,
		MilestoneHit:  changed && record.MilestoneHit(),
	}, nil
}

func (u *streakUsecase) Reconcile(ctx context.Context, userID int64) (int32, error) {
	if userID <= 0 {
		return 0, entity.ErrInvalidUserID
	}
	days, err := u.progression.ActivityDays(ctx, userID)
	if err != nil {
		return 0, err
	}
	derived := entity.DeriveStreak(days, u.clock())

	record, err := u.streaks.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	if record == nil || record.CurrentStreak == derived {
		return derived, nil
	}
	if _, err := u.streaks.SetCurrent(ctx, userID, derived); err != nil {
		return 0, err
	}
	return derived, nil
}

func (u *streakUsecase) ReconcileAll(ctx context.Context) (int, error) {
	userIDs, err := u.streaks.UserIDs(ctx)
	if err != nil {
		return 0, err
	}
	repaired := 0
	for _, userID := range userIDs {
		record, err := u.streaks.Get(ctx, userID)
		if err != nil {
			return repaired, err
		}
		before := int32(0)
		if record != nil {
			before = record.CurrentStreak
		}
		derived, err := u.Reconcile(ctx, userID)
		if err != nil {
			return repaired, err
		}
		if derived != before {
			repaired++
		}
	}
	return repaired, nil
}
