package repository

import (
	"context"
	"fmt"

	"github.com/examforge/prepcore/internal/entity"
	"github.com/examforge/prepcore/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository constructs a read-only view over certification
// reference data and the attempt aggregates maintained by the surrounding
// application.
func NewStatsRepository(pool *pgxpool.Pool) repository.StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Domains(ctx context.Context, certificationID int64) ([]entity.CertificationDomain, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, certification_id, name, exam_weight
		   FROM certification_domains WHERE certification_id = $1
		  ORDER BY id`,
		certificationID)
	if err != nil {
		return nil, fmt.Errorf("list certification domains: %w", err)
	}
	defer rows.Close()

	domains := make([]entity.CertificationDomain, 0)
	for rows.Next() {
		var domain entity.CertificationDomain
		if err := rows.Scan(&domain.ID, &domain.CertificationID, &domain.Name, &domain.ExamWeight); err != nil {
			return nil, fmt.Errorf("scan certification domain: %w", err)
		}
		domains = append(domains, domain)
	}
	return domains, rows.Err()
}

func (r *statsRepository) AttemptStats(ctx context.Context, userID int64, domainIDs []int64) ([]entity.DomainAttemptStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(domainIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT domain_id, total_attempts, correct_attempts, last_attempted_at
		   FROM domain_attempt_stats
		  WHERE user_id = $1 AND domain_id = ANY($2)`,
		userID, domainIDs)
	if err != nil {
		return nil, fmt.Errorf("list attempt stats: %w", err)
	}
	defer rows.Close()

	stats := make([]entity.DomainAttemptStats, 0, len(domainIDs))
	for rows.Next() {
		s := entity.DomainAttemptStats{UserID: userID}
		if err := rows.Scan(&s.DomainID, &s.TotalAttempts, &s.CorrectAttempts, &s.LastAttemptedAt); err != nil {
			return nil, fmt.Errorf("scan attempt stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
