package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements are applied in order by Migrate. Every statement is
// idempotent so db-init can be re-run against an existing database.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS progression_records (
		user_id       BIGINT PRIMARY KEY,
		total_xp      BIGINT NOT NULL DEFAULT 0,
		current_level INTEGER NOT NULL DEFAULT 1,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS xp_history (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL,
		amount     INTEGER NOT NULL,
		source     TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_xp_history_user_created ON xp_history (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_xp_history_user_source ON xp_history (user_id, source)`,
	`CREATE TABLE IF NOT EXISTS streak_records (
		user_id            BIGINT PRIMARY KEY,
		current_streak     INTEGER NOT NULL DEFAULT 0,
		longest_streak     INTEGER NOT NULL DEFAULT 0,
		last_activity_date DATE,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS review_states (
		user_id        BIGINT NOT NULL,
		item_id        BIGINT NOT NULL,
		ease_factor    DOUBLE PRECISION NOT NULL DEFAULT 2.5,
		interval_days  INTEGER NOT NULL DEFAULT 1,
		repetitions    INTEGER NOT NULL DEFAULT 0,
		next_review_at TIMESTAMPTZ NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, item_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_review_states_user_due ON review_states (user_id, next_review_at)`,
	`CREATE TABLE IF NOT EXISTS certification_domains (
		id               BIGSERIAL PRIMARY KEY,
		certification_id BIGINT NOT NULL,
		name             TEXT NOT NULL,
		exam_weight      DOUBLE PRECISION NOT NULL DEFAULT 1,
		UNIQUE (certification_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS domain_attempt_stats (
		user_id           BIGINT NOT NULL,
		domain_id         BIGINT NOT NULL,
		total_attempts    INTEGER NOT NULL DEFAULT 0,
		correct_attempts  INTEGER NOT NULL DEFAULT 0,
		last_attempted_at TIMESTAMPTZ,
		PRIMARY KEY (user_id, domain_id)
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id               BIGSERIAL PRIMARY KEY,
		certification_id BIGINT NOT NULL,
		domain_id        BIGINT NOT NULL DEFAULT 0,
		text             TEXT NOT NULL,
		created_by       TEXT NOT NULL DEFAULT 'generator',
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_questions_cert_text ON questions (certification_id, md5(text))`,
	`CREATE INDEX IF NOT EXISTS idx_questions_certification ON questions (certification_id)`,
}

// Migrate applies the schema to the target database.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}
