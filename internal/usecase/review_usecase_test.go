package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/examforge/prepcore/internal/entity"
	"github.com/examforge/prepcore/pkg/sm2"
)

type reviewKey struct {
	userID int64
	itemID int64
}

type fakeReviewRepo struct {
	mu    sync.RWMutex
	items map[reviewKey]*entity.ReviewState
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{items: make(map[reviewKey]*entity.ReviewState)}
}

func (r *fakeReviewRepo) Get(ctx context.Context, userID, itemID int64) (*entity.ReviewState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.items[reviewKey{userID, itemID}]
	if !ok {
		return nil, nil
	}
	return cloneReview(state), nil
}

func (r *fakeReviewRepo) Upsert(ctx context.Context, state *entity.ReviewState) (*entity.ReviewState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := cloneReview(state)
	r.items[reviewKey{state.UserID, state.ItemID}] = copy
	return cloneReview(copy), nil
}

func (r *fakeReviewRepo) ListDue(ctx context.Context, userID int64, asOf time.Time, limit int32) ([]entity.ReviewState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	due := make([]entity.ReviewState, 0)
	for key, state := range r.items {
		if key.userID == userID && !state.NextReviewAt.After(asOf) {
			due = append(due, *cloneReview(state))
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].NextReviewAt.Before(due[j].NextReviewAt) })
	if int32(len(due)) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *fakeReviewRepo) CountDue(ctx context.Context, userID int64, asOf time.Time) (int64, error) {
	due, err := r.ListDue(ctx, userID, asOf, 1<<30)
	if err != nil {
		return 0, err
	}
	return int64(len(due)), nil
}

func cloneReview(state *entity.ReviewState) *entity.ReviewState {
	copy := *state
	return &copy
}

func newReviewUsecaseAt(repo *fakeReviewRepo, now *time.Time) ReviewUsecase {
	uc := NewReviewUsecase(repo).(*reviewUsecase)
	uc.clock = func() time.Time { return *now }
	return uc
}

func TestSubmitReviewCreatesState(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	uc := newReviewUsecaseAt(newFakeReviewRepo(), &now)

	state, err := uc.SubmitReview(context.Background(), 42, 7, sm2.RatingGood)
	if err != nil {
		t.Fatal(err)
	}
	if state.Repetitions != 1 || state.IntervalDays != 1 {
		t.Errorf("first review = reps %d interval %d, want 1/1", state.Repetitions, state.IntervalDays)
	}
	if !state.NextReviewAt.Equal(now.AddDate(0, 0, 1)) {
		t.Errorf("next review = %v, want tomorrow", state.NextReviewAt)
	}
	if state.CreatedAt.IsZero() || state.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestSubmitReviewLadder(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	repo := newFakeReviewRepo()
	uc := newReviewUsecaseAt(repo, &now)
	ctx := context.Background()

	uc.SubmitReview(ctx, 42, 7, sm2.RatingGood)
	second, _ := uc.SubmitReview(ctx, 42, 7, sm2.RatingGood)
	if second.Repetitions != 2 || second.IntervalDays != 6 {
		t.Fatalf("second review = %d/%d, want 2/6", second.Repetitions, second.IntervalDays)
	}
	third, err := uc.SubmitReview(ctx, 42, 7, sm2.RatingGood)
	if err != nil {
		t.Fatal(err)
	}
	if third.Repetitions != 3 || third.IntervalDays != 15 {
		t.Errorf("third review = %d/%d, want 3/15", third.Repetitions, third.IntervalDays)
	}
}

func TestSubmitReviewFailureResets(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	uc := newReviewUsecaseAt(newFakeReviewRepo(), &now)
	ctx := context.Background()

	uc.SubmitReview(ctx, 42, 7, sm2.RatingGood)
	uc.SubmitReview(ctx, 42, 7, sm2.RatingGood)
	state, err := uc.SubmitReview(ctx, 42, 7, sm2.RatingAgain)
	if err != nil {
		t.Fatal(err)
	}
	if state.Repetitions != 0 || state.IntervalDays != 1 {
		t.Errorf("failed review = %d/%d, want 0/1", state.Repetitions, state.IntervalDays)
	}
}

func TestDueReviewsOrderAndLimit(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	repo := newFakeReviewRepo()
	uc := newReviewUsecaseAt(repo, &now)
	ctx := context.Background()

	for i, daysAgo := range []int{1, 5, 3} {
		repo.Upsert(ctx, &entity.ReviewState{
			UserID:       42,
			ItemID:       int64(i + 1),
			NextReviewAt: now.AddDate(0, 0, -daysAgo),
		})
	}
	// Not yet due.
	repo.Upsert(ctx, &entity.ReviewState{UserID: 42, ItemID: 9, NextReviewAt: now.AddDate(0, 0, 2)})
	// Another user's backlog must not leak in.
	repo.Upsert(ctx, &entity.ReviewState{UserID: 7, ItemID: 1, NextReviewAt: now.AddDate(0, 0, -9)})

	due, err := uc.DueReviews(ctx, 42, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 2 {
		t.Fatalf("due count = %d, want 2", len(due))
	}
	if due[0].ItemID != 2 || due[1].ItemID != 3 {
		t.Errorf("due order = %d,%d, want most overdue first (2,3)", due[0].ItemID, due[1].ItemID)
	}
}

func TestPlanSession(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	repo := newFakeReviewRepo()
	uc := newReviewUsecaseAt(repo, &now)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		repo.Upsert(ctx, &entity.ReviewState{UserID: 42, ItemID: int64(i + 1), NextReviewAt: now.AddDate(0, 0, -1)})
	}
	plan, err := uc.PlanSession(ctx, 42, 10, 30)
	if err != nil {
		t.Fatal(err)
	}
	if plan.DueCount != 30 {
		t.Errorf("due count = %d, want 30", plan.DueCount)
	}
	if plan.BatchSize != 20 {
		t.Errorf("batch size = %d, want 20 (10min / 30s)", plan.BatchSize)
	}
}
