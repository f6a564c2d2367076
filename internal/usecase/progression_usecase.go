package usecase

import (
	"context"
	"strings"

	"github.com/examforge/prepcore/internal/entity"
	"github.com/examforge/prepcore/internal/repository"
)

// ProgressionUsecase encapsulates business logic for the XP ledger.
type ProgressionUsecase interface {
	// AwardXP credits the fixed reward for a completed activity.
	AwardXP(ctx context.Context, userID int64, activity entity.ActivityType) (*entity.AwardResult, error)

	// AwardCustomXP credits an arbitrary amount at most once per
	// (user, source). A repeated source yields AlreadyApplied instead of
	// double-crediting.
	AwardCustomXP(ctx context.Context, userID int64, amount int, source string) (*entity.AwardResult, error)

	// Progress reports the user's totals and position on the level
	// ladder; users without awards sit at level 1 with zero XP.
	Progress(ctx context.Context, userID int64) (*entity.ProgressionRecord, entity.LevelInfo, error)

	History(ctx context.Context, userID int64, limit int32) ([]entity.XPHistoryEntry, error)
}

// NewProgressionUsecase wires the repository with default behaviour.
func NewProgressionUsecase(repo repository.ProgressionRepository) ProgressionUsecase {
	return &progressionUsecase{repo: repo}
}

type progressionUsecase struct {
	repo repository.ProgressionRepository
}

func (u *progressionUsecase) AwardXP(ctx context.Context, userID int64, activity entity.ActivityType) (*entity.AwardResult, error) {
	if userID <= 0 {
		return nil, entity.ErrInvalidUserID
	}
	amount, err := entity.RewardFor(activity)
	if err != nil {
		return nil, err
	}

	record, err := u.repo.Award(ctx, userID, amount, string(activity))
	if err != nil {
		return nil, err
	}
	return buildAwardResult(record, amount, false), nil
}

func (u *progressionUsecase) AwardCustomXP(ctx context.Context, userID int64, amount int, source string) (*entity.AwardResult, error) {
	if userID <= 0 {
		return nil, entity.ErrInvalidUserID
	}
	if amount <= 0 {
		return nil, entity.ErrInvalidXPAmount
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, entity.ErrInvalidXPSource
	}

	record, applied, err := u.repo.AwardOnce(ctx, userID, amount, source)
	if err != nil {
		return nil, err
	}
	if !applied {
		result := buildAwardResult(record, 0, false)
		result.AlreadyApplied = true
		return result, nil
	}
	return buildAwardResult(record, amount, false), nil
}

func (u *progressionUsecase) Progress(ctx context.Context, userID int64) (*entity.ProgressionRecord, entity.LevelInfo, error) {
	if userID <= 0 {
		return nil, entity.LevelInfo{}, entity.ErrInvalidUserID
	}
	record, err := u.repo.Get(ctx, userID)
	if err != nil {
		return nil, entity.LevelInfo{}, err
	}
	if record == nil {
		record = &entity.ProgressionRecord{UserID: userID, CurrentLevel: 1}
	}
	return record, entity.LevelForXP(record.TotalXP), nil
}

func (u *progressionUsecase) History(ctx context.Context, userID int64, limit int32) ([]entity.XPHistoryEntry, error) {
	if userID <= 0 {
		return nil, entity.ErrInvalidUserID
	}
	if limit <= 0 {
		limit = 50
	}
	return u.repo.History(ctx, userID, limit)
}

// buildAwardResult derives level-up information from the committed totals.
// The level before this award is a pure function of TotalXP−awarded, so no
// extra read is needed.
func buildAwardResult(record *entity.ProgressionRecord, awarded int, alreadyApplied bool) *entity.AwardResult {
	info := entity.LevelForXP(record.TotalXP)
	result := &entity.AwardResult{
		Awarded:        awarded,
		TotalXP:        record.TotalXP,
		CurrentLevel:   info.Level,
		Title:          info.Title,
		AlreadyApplied: alreadyApplied,
	}
	if awarded > 0 {
		before := entity.LevelForXP(record.TotalXP - int64(awarded))
		result.LeveledUp = info.Level > before.Level
	}
	return result
}
