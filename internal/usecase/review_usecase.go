package usecase

import (
	"context"
	"time"

	"github.com/examforge/prepcore/internal/entity"
	"github.com/examforge/prepcore/internal/repository"
	"github.com/examforge/prepcore/pkg/sm2"
)

// SessionPlan sizes a review session against the user's due backlog.
type SessionPlan struct {
	DueCount  int64
	BatchSize int
}

// ReviewUsecase persists spaced-repetition state around the pure scheduler.
type ReviewUsecase interface {
	// SubmitReview applies one rated recall to the (user, item) pair,
	// creating its state on first review, and returns the stored row.
	SubmitReview(ctx context.Context, userID, itemID int64, rating sm2.Rating) (*entity.ReviewState, error)

	// DueReviews lists up to limit items due now, most overdue first.
	DueReviews(ctx context.Context, userID int64, limit int32) ([]entity.ReviewState, error)

	// PlanSession recommends how many due cards fit into targetMinutes
	// given the expected seconds per card.
	PlanSession(ctx context.Context, userID int64, targetMinutes, avgSecondsPerCard int) (*SessionPlan, error)
}

// NewReviewUsecase wires the repository with default behaviour.
func NewReviewUsecase(repo repository.ReviewRepository) ReviewUsecase {
	return &reviewUsecase{repo: repo, clock: time.Now}
}

type reviewUsecase struct {
	repo  repository.ReviewRepository
	clock func() time.Time
}

func (u *reviewUsecase) SubmitReview(ctx context.Context, userID, itemID int64, rating sm2.Rating) (*entity.ReviewState, error) {
	if userID <= 0 {
		return nil, entity.ErrInvalidUserID
	}

	existing, err := u.repo.Get(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	now := u.clock()
	prior := sm2.NewState()
	state := existing
	if state == nil {
		state = &entity.ReviewState{UserID: userID, ItemID: itemID}
	} else {
		prior = state.Scheduling()
	}

	state.ApplyScheduling(sm2.Review(prior, rating, now), now)
	return u.repo.Upsert(ctx, state)
}

func (u *reviewUsecase) DueReviews(ctx context.Context, userID int64, limit int32) ([]entity.ReviewState, error) {
	if userID <= 0 {
		return nil, entity.ErrInvalidUserID
	}
	if limit <= 0 {
		limit = 20
	}
	return u.repo.ListDue(ctx, userID, u.clock(), limit)
}

func (u *reviewUsecase) PlanSession(ctx context.Context, userID int64, targetMinutes, avgSecondsPerCard int) (*SessionPlan, error) {
	if userID <= 0 {
		return nil, entity.ErrInvalidUserID
	}
	due, err := u.repo.CountDue(ctx, userID, u.clock())
	if err != nil {
		return nil, err
	}
	return &SessionPlan{
		DueCount:  due,
		BatchSize: sm2.BatchSize(int(due), targetMinutes, avgSecondsPerCard),
	}, nil
}
