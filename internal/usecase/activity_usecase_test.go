package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/examforge/prepcore/internal/entity"
)

func TestCompleteActivity(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	stats := newFakeStatsRepo()
	seedDomains(stats, 1, 1.0)

	progression := NewProgressionUsecase(newFakeProgressionRepo())
	streaks := newStreakUsecaseAt(newFakeStreakRepo(), newFakeProgressionRepo(), &now)
	readiness := newReadinessUsecaseAt(stats, &now)
	uc := NewActivityUsecase(progression, streaks, readiness)
	ctx := context.Background()

	// Prime the readiness cache with the no-attempts score.
	stale, _ := readiness.CalculateReadiness(ctx, 42, 1)
	if stale.Overall != 0 {
		t.Fatalf("primed overall = %f, want 0", stale.Overall)
	}

	outcome, err := uc.CompleteActivity(ctx, 42, 1, entity.ActivityExamCompleted)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Award.TotalXP != 50 {
		t.Errorf("total XP = %d, want 50", outcome.Award.TotalXP)
	}
	if outcome.Streak.CurrentStreak != 1 {
		t.Errorf("streak = %d, want 1", outcome.Streak.CurrentStreak)
	}

	// The completion invalidated the cached score, so new attempt data is
	// visible immediately.
	last := now
	stats.setStats(42, entity.DomainAttemptStats{DomainID: 1, TotalAttempts: 10, CorrectAttempts: 9, LastAttemptedAt: &last})
	fresh, _ := readiness.CalculateReadiness(ctx, 42, 1)
	if fresh.Overall == 0 {
		t.Error("readiness not recomputed after activity completion")
	}
}

func TestCompleteActivityUnknownType(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	uc := NewActivityUsecase(
		NewProgressionUsecase(newFakeProgressionRepo()),
		newStreakUsecaseAt(newFakeStreakRepo(), newFakeProgressionRepo(), &now),
		newReadinessUsecaseAt(newFakeStatsRepo(), &now),
	)
	if _, err := uc.CompleteActivity(context.Background(), 42, 1, entity.ActivityType("nope")); err != entity.ErrInvalidActivityType {
		t.Errorf("err = %v, want ErrInvalidActivityType", err)
	}
}
