package repository

import (
	"context"
	"fmt"

	"github.com/examforge/prepcore/internal/entity"
	"github.com/examforge/prepcore/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type questionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository constructs a pgx-backed question bank store.
func NewQuestionRepository(pool *pgxpool.Pool) repository.QuestionRepository {
	return &questionRepository{pool: pool}
}

func (r *questionRepository) ListByCertification(ctx context.Context, certificationID int64) ([]entity.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, certification_id, domain_id, text, created_by, created_at
		   FROM questions WHERE certification_id = $1
		  ORDER BY id`,
		certificationID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]entity.Question, 0)
	for rows.Next() {
		var q entity.Question
		if err := rows.Scan(&q.ID, &q.CertificationID, &q.DomainID, &q.Text, &q.CreatedBy, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *questionRepository) CreateBatch(ctx context.Context, questions []*entity.Question) ([]*entity.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, nil
	}
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, q := range questions {
			err := tx.QueryRow(ctx,
				`INSERT INTO questions (certification_id, domain_id, text, created_by, created_at)
				 VALUES ($1, $2, $3, $4, $5)
				 RETURNING id`,
				q.CertificationID, q.DomainID, q.Text, q.CreatedBy, q.CreatedAt).Scan(&q.ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translatePgError("create questions", err)
	}
	return questions, nil
}
