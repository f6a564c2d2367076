package usecase

import (
	"context"

	"github.com/examforge/prepcore/internal/entity"
)

// ActivityOutcome bundles everything a completed activity changed.
type ActivityOutcome struct {
	Award  *entity.AwardResult
	Streak *StreakStatus
}

// ActivityUsecase is the activity-completion facade: one call awards XP,
// advances the streak and invalidates the stale readiness score.
type ActivityUsecase interface {
	CompleteActivity(ctx context.Context, userID, certificationID int64, activity entity.ActivityType) (*ActivityOutcome, error)
}

// NewActivityUsecase composes the progression, streak and readiness
// usecases.
func NewActivityUsecase(progression ProgressionUsecase, streaks StreakUsecase, readiness ReadinessUsecase) ActivityUsecase {
	return &activityUsecase{
		progression: progression,
		streaks:     streaks,
		readiness:   readiness,
	}
}

type activityUsecase struct {
	progression ProgressionUsecase
	streaks     StreakUsecase
	readiness   ReadinessUsecase
}

func (u *activityUsecase) CompleteActivity(ctx context.Context, userID, certificationID int64, activity entity.ActivityType) (*ActivityOutcome, error) {
	award, err := u.progression.AwardXP(ctx, userID, activity)
	if err != nil {
		return nil, err
	}
	streak, err := u.streaks.UpdateStreak(ctx, userID)
	if err != nil {
		return nil, err
	}

	// New attempt data makes any cached readiness score stale.
	if certificationID > 0 {
		u.readiness.Invalidate(userID, certificationID)
	} else {
		u.readiness.InvalidateAll(userID)
	}

	return &ActivityOutcome{Award: award, Streak: streak}, nil
}
