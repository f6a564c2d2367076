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

type streakRepository struct {
	pool *pgxpool.Pool
}

// NewStreakRepository constructs a pgx-backed streak store. Touch holds a
// row lock across the day comparison so same-day races stay idempotent.
func NewStreakRepository(pool *pgxpool.Pool) repository.StreakRepository {
	return &streakRepository{pool: pool}
}

func (r *streakRepository) Touch(ctx context.Context, userID int64, now time.Time) (*entity.StreakRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var (
		record  *entity.StreakRecord
		changed bool
	)
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		locked, err := lockStreak(ctx, tx, userID)
		if err != nil {
			return err
		}
		record = locked
		changed = record.Advance(now)
		if !changed {
			return nil
		}
		return tx.QueryRow(ctx,
			`UPDATE streak_records
			    SET current_streak = $2, longest_streak = $3, last_activity_date = $4, updated_at = now()
			  WHERE user_id = $1
			  RETURNING updated_at`,
			userID, record.CurrentStreak, record.LongestStreak, record.LastActivityDate).Scan(&record.UpdatedAt)
	})
	if err != nil {
		return nil, false, fmt.Errorf("touch streak: %w", err)
	}
	return record, changed, nil
}

func (r *streakRepository) Get(ctx context.Context, userID int64) (*entity.StreakRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	record := &entity.StreakRecord{UserID: userID}
	err := r.pool.QueryRow(ctx,
		`SELECT current_streak, longest_streak, last_activity_date, created_at, updated_at
		   FROM streak_records WHERE user_id = $1`,
		userID).Scan(&record.CurrentStreak, &record.LongestStreak, &record.LastActivityDate, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get streak record: %w", err)
	}
	normalizeStreakDate(record)
	return record, nil
}

func (r *streakRepository) SetCurrent(ctx context.Context, userID int64, current int32) (*entity.StreakRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var record *entity.StreakRecord
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		locked, err := lockStreak(ctx, tx, userID)
		if err != nil {
			return err
		}
		record = locked
		record.CurrentStreak = current
		if record.LongestStreak < current {
			record.LongestStreak = current
		}
		return tx.QueryRow(ctx,
			`UPDATE streak_records
			    SET current_streak = $2, longest_streak = $3, updated_at = now()
			  WHERE user_id = $1
			  RETURNING updated_at`,
			userID, record.CurrentStreak, record.LongestStreak).Scan(&record.UpdatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("set streak: %w", err)
	}
	return record, nil
}

func (r *streakRepository) UserIDs(ctx context.Context) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, `SELECT user_id FROM streak_records ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list streak users: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan streak user: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func lockStreak(ctx context.Context, tx pgx.Tx, userID int64) (*entity.StreakRecord, error) {
	_, err := tx.Exec(ctx,
		`INSERT INTO streak_records (user_id, current_streak, longest_streak)
		 VALUES ($1, 0, 0) ON CONFLICT (user_id) DO NOTHING`,
		userID)
	if err != nil {
		return nil, err
	}
	record := &entity.StreakRecord{UserID: userID}
	err = tx.QueryRow(ctx,
		`SELECT current_streak, longest_streak, last_activity_date, created_at, updated_at
		   FROM streak_records WHERE user_id = $1 FOR UPDATE`,
		userID).Scan(&record.CurrentStreak, &record.LongestStreak, &record.LastActivityDate, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	normalizeStreakDate(record)
	return record, nil
}

// normalizeStreakDate pins the scanned date column to a UTC calendar date;
// drivers may attach a session time zone.
func normalizeStreakDate(record *entity.StreakRecord) {
	if record.LastActivityDate != nil {
		day := entity.DateOf(*record.LastActivityDate)
		record.LastActivityDate = &day
	}
}
