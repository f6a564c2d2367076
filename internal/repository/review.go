package repository

import (
	"context"
	"time"

	"github.com/examforge/prepcore/internal/entity"
)

// ReviewRepository abstracts persistence for per-item review scheduling
// state. One row per (user, item) pair.
type ReviewRepository interface {
	// Get returns the pair's state, or nil when the item was never
	// reviewed.
	Get(ctx context.Context, userID, itemID int64) (*entity.ReviewState, error)

	Upsert(ctx context.Context, state *entity.ReviewState) (*entity.ReviewState, error)

	// ListDue returns up to limit items whose next review is at or before
	// asOf, most overdue first.
	ListDue(ctx context.Context, userID int64, asOf time.Time, limit int32) ([]entity.ReviewState, error)

	CountDue(ctx context.Context, userID int64, asOf time.Time) (int64, error)
}
