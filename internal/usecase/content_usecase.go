package usecase

import (
	"context"
	"time"

	"github.com/examforge/prepcore/internal/entity"
	"github.com/examforge/prepcore/internal/repository"
	"github.com/examforge/prepcore/pkg/textsim"
	"github.com/samber/lo"
)

// IngestReport summarizes one dedup-gated ingestion run.
type IngestReport struct {
	Accepted []*entity.Question
	Rejected []textsim.Result
}

// ContentUsecase gates freshly generated questions through the similarity
// engine before they reach the question bank.
type ContentUsecase interface {
	// IngestQuestions checks each text against the certification's stored
	// questions and against earlier texts of the same batch, persisting
	// only novel ones.
	IngestQuestions(ctx context.Context, certificationID, domainID int64, texts []string, createdBy string) (*IngestReport, error)

	// CheckDuplicate reports the closest stored question at or above the
	// dedup threshold, or nil for novel text.
	CheckDuplicate(ctx context.Context, certificationID int64, text string) (*textsim.Match, error)
}

// NewContentUsecase wires the repository with the default similarity
// threshold.
func NewContentUsecase(repo repository.QuestionRepository) ContentUsecase {
	return NewContentUsecaseWithThreshold(repo, textsim.DefaultThreshold)
}

// NewContentUsecaseWithThreshold overrides the similarity threshold,
// typically from engine config.
func NewContentUsecaseWithThreshold(repo repository.QuestionRepository, threshold float64) ContentUsecase {
	if threshold <= 0 || threshold > 1 {
		threshold = textsim.DefaultThreshold
	}
	return &contentUsecase{repo: repo, threshold: threshold, clock: time.Now}
}

type contentUsecase struct {
	repo      repository.QuestionRepository
	threshold float64
	clock     func() time.Time
}

func (u *contentUsecase) IngestQuestions(ctx context.Context, certificationID, domainID int64, texts []string, createdBy string) (*IngestReport, error) {
	pool, err := u.existingPool(ctx, certificationID)
	if err != nil {
		return nil, err
	}

	results := textsim.DeduplicateBatch(texts, pool, u.threshold)

	now := u.clock()
	report := &IngestReport{}
	accepted := make([]*entity.Question, 0, len(results))
	for _, result := range results {
		if !result.Accepted {
			report.Rejected = append(report.Rejected, result)
			continue
		}
		question := &entity.Question{
			CertificationID: certificationID,
			DomainID:        domainID,
			Text:            result.Text,
			CreatedBy:       createdBy,
		}
		if err := question.Normalize(now); err != nil {
			return nil, err
		}
		accepted = append(accepted, question)
	}

	if len(accepted) > 0 {
		created, err := u.repo.CreateBatch(ctx, accepted)
		if err != nil {
			return nil, err
		}
		report.Accepted = created
	}
	return report, nil
}

func (u *contentUsecase) CheckDuplicate(ctx context.Context, certificationID int64, text string) (*textsim.Match, error) {
	pool, err := u.existingPool(ctx, certificationID)
	if err != nil {
		return nil, err
	}
	return textsim.FindDuplicate(text, pool, u.threshold), nil
}

func (u *contentUsecase) existingPool(ctx context.Context, certificationID int64) ([]textsim.Item, error) {
	questions, err := u.repo.ListByCertification(ctx, certificationID)
	if err != nil {
		return nil, err
	}
	return lo.Map(questions, func(q entity.Question, _ int) textsim.Item {
		return textsim.NewItem(q.ID, q.Text)
	}), nil
}
