package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/examforge/prepcore/internal/entity"
	"github.com/examforge/prepcore/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository constructs a pgx-backed store for per-item review
// scheduling state.
func NewReviewRepository(pool *pgxpool.Pool) repository.ReviewRepository {
	return &reviewRepository{pool: pool}
}

func (r *reviewRepository) Get(ctx context.Context, userID, itemID int64) (*entity.ReviewState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	state := &entity.ReviewState{UserID: userID, ItemID: itemID}
	err := r.pool.QueryRow(ctx,
		`SELECT ease_factor, interval_days, repetitions, next_review_at, created_at, updated_at
		   FROM review_states WHERE user_id = $1 AND item_id = $2`,
		userID, itemID).Scan(&state.EaseFactor, &state.IntervalDays, &state.Repetitions,
		&state.NextReviewAt, &state.CreatedAt, &state.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get review state: %w", err)
	}
	return state, nil
}

func (r *reviewRepository) Upsert(ctx context.Context, state *entity.ReviewState) (*entity.ReviewState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO review_states (user_id, item_id, ease_factor, interval_days, repetitions, next_review_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, item_id) DO UPDATE SET
		     ease_factor = EXCLUDED.ease_factor,
		     interval_days = EXCLUDED.interval_days,
		     repetitions = EXCLUDED.repetitions,
		     next_review_at = EXCLUDED.next_review_at,
		     updated_at = now()
		 RETURNING created_at, updated_at`,
		state.UserID, state.ItemID, state.EaseFactor, state.IntervalDays,
		state.Repetitions, state.NextReviewAt).Scan(&state.CreatedAt, &state.UpdatedAt)
	if err != nil {
		return nil, translatePgError("upsert review state", err)
	}
	return state, nil
}

func (r *reviewRepository) ListDue(ctx context.Context, userID int64, asOf time.Time, limit int32) ([]entity.ReviewState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, item_id, ease_factor, interval_days, repetitions, next_review_at, created_at, updated_at
		   FROM review_states
		  WHERE user_id = $1 AND next_review_at <= $2
		  ORDER BY next_review_at ASC
		  LIMIT $3`,
		userID, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("list due reviews: %w", err)
	}
	defer rows.Close()

	states := make([]entity.ReviewState, 0, limit)
	for rows.Next() {
		var state entity.ReviewState
		if err := rows.Scan(&state.UserID, &state.ItemID, &state.EaseFactor, &state.IntervalDays,
			&state.Repetitions, &state.NextReviewAt, &state.CreatedAt, &state.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan review state: %w", err)
		}
		states = append(states, state)
	}
	return states, rows.Err()
}

func (r *reviewRepository) CountDue(ctx context.Context, userID int64, asOf time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM review_states WHERE user_id = $1 AND next_review_at <= $2`,
		userID, asOf).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count due reviews: %w", err)
	}
	return count, nil
}
