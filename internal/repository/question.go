package repository

import (
	"context"

	"github.com/examforge/prepcore/internal/entity"
)

// QuestionRepository abstracts persistence for the dedup-gated question
// bank.
type QuestionRepository interface {
	// ListByCertification returns every stored question of a
	// certification, oldest first.
	ListByCertification(ctx context.Context, certificationID int64) ([]entity.Question, error)

	CreateBatch(ctx context.Context, questions []*entity.Question) ([]*entity.Question, error)
}
