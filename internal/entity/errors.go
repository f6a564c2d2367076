package entity

import "errors"

// Domain errors for progression aggregates.
var (
	ErrInvalidUserID        = errors.New("invalid user ID")
	ErrInvalidActivityType  = errors.New("unknown activity type")
	ErrInvalidXPAmount      = errors.New("invalid XP amount")
	ErrInvalidXPSource      = errors.New("invalid XP source")
	ErrReviewStateNotFound  = errors.New("review state not found")
	ErrCertificationUnknown = errors.New("unknown certification")
	ErrInvalidQuestionText  = errors.New("invalid question text")
	ErrDuplicateQuestion    = errors.New("question already exists")
)
