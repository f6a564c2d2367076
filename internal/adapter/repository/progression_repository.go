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

type progressionRepository struct {
	pool *pgxpool.Pool
}

// NewProgressionRepository constructs a pgx-backed XP ledger. Every award
// runs as one transaction around a row lock, so concurrent completions for
// the same user serialize instead of losing updates.
func NewProgressionRepository(pool *pgxpool.Pool) repository.ProgressionRepository {
	return &progressionRepository{pool: pool}
}

func (r *progressionRepository) Award(ctx context.Context, userID int64, amount int, source string) (*entity.ProgressionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var record *entity.ProgressionRecord
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		locked, err := lockRecord(ctx, tx, userID)
		if err != nil {
			return err
		}
		record, err = applyAward(ctx, tx, locked, amount, source)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("award xp: %w", err)
	}
	return record, nil
}

func (r *progressionRepository) AwardOnce(ctx context.Context, userID int64, amount int, source string) (*entity.ProgressionRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var (
		record  *entity.ProgressionRecord
		applied bool
	)
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		// Lock first: a concurrent retry with the same source blocks here
		// until the winner commits, then sees its history entry.
		locked, err := lockRecord(ctx, tx, userID)
		if err != nil {
			return err
		}
		var exists bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM xp_history WHERE user_id = $1 AND source = $2)`,
			userID, source).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			record = locked
			return nil
		}
		applied = true
		record, err = applyAward(ctx, tx, locked, amount, source)
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("award custom xp: %w", err)
	}
	return record, applied, nil
}

func (r *progressionRepository) Get(ctx context.Context, userID int64) (*entity.ProgressionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	record := &entity.ProgressionRecord{UserID: userID}
	err := r.pool.QueryRow(ctx,
		`SELECT total_xp, current_level, created_at, updated_at
		   FROM progression_records WHERE user_id = $1`,
		userID).Scan(&record.TotalXP, &record.CurrentLevel, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get progression record: %w", err)
	}
	return record, nil
}

func (r *progressionRepository) History(ctx context.Context, userID int64, limit int32) ([]entity.XPHistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, amount, source, created_at
		   FROM xp_history WHERE user_id = $1
		  ORDER BY created_at DESC, id DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list xp history: %w", err)
	}
	defer rows.Close()

	entries := make([]entity.XPHistoryEntry, 0, limit)
	for rows.Next() {
		var entry entity.XPHistoryEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Amount, &entry.Source, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan xp history: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *progressionRepository) ActivityDays(ctx context.Context, userID int64) ([]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT (created_at AT TIME ZONE 'UTC')::date AS day
		   FROM xp_history WHERE user_id = $1
		  ORDER BY day DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list activity days: %w", err)
	}
	defer rows.Close()

	days := make([]time.Time, 0)
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("scan activity day: %w", err)
		}
		days = append(days, entity.DateOf(day))
	}
	return days, rows.Err()
}

// lockRecord upserts the user's row and takes a row lock for the rest of
// the transaction.
func lockRecord(ctx context.Context, tx pgx.Tx, userID int64) (*entity.ProgressionRecord, error) {
	_, err := tx.Exec(ctx,
		`INSERT INTO progression_records (user_id, total_xp, current_level)
		 VALUES ($1, 0, 1) ON CONFLICT (user_id) DO NOTHING`,
		userID)
	if err != nil {
		return nil, err
	}
	record := &entity.ProgressionRecord{UserID: userID}
	err = tx.QueryRow(ctx,
		`SELECT total_xp, current_level, created_at, updated_at
		   FROM progression_records WHERE user_id = $1 FOR UPDATE`,
		userID).Scan(&record.TotalXP, &record.CurrentLevel, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func applyAward(ctx context.Context, tx pgx.Tx, record *entity.ProgressionRecord, amount int, source string) (*entity.ProgressionRecord, error) {
	record.TotalXP += int64(amount)
	record.CurrentLevel = entity.LevelForXP(record.TotalXP).Level

	err := tx.QueryRow(ctx,
		`UPDATE progression_records
		    SET total_xp = $2, current_level = $3, updated_at = now()
		  WHERE user_id = $1
		  RETURNING updated_at`,
		record.UserID, record.TotalXP, record.CurrentLevel).Scan(&record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO xp_history (user_id, amount, source) VALUES ($1, $2, $3)`,
		record.UserID, amount, source)
	if err != nil {
		return nil, err
	}
	return record, nil
}
