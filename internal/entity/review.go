package entity

import (
	"time"

	"github.com/examforge/prepcore/pkg/sm2"
)

// ReviewState is the persisted scheduling state of one (user, item) pair,
// owned exclusively by the spaced-repetition scheduler.
type ReviewState struct {
	UserID       int64
	ItemID       int64
	EaseFactor   float64
	IntervalDays int32
	Repetitions  int32
	NextReviewAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Scheduling converts the stored row into scheduler input.
func (r *ReviewState) Scheduling() sm2.State {
	return sm2.State{
		EaseFactor:   r.EaseFactor,
		IntervalDays: int(r.IntervalDays),
		Repetitions:  int(r.Repetitions),
		NextReviewAt: r.NextReviewAt,
	}
}

// ApplyScheduling writes scheduler output back onto the row.
func (r *ReviewState) ApplyScheduling(s sm2.State, now time.Time) {
	r.EaseFactor = s.EaseFactor
	r.IntervalDays = int32(s.IntervalDays)
	r.Repetitions = int32(s.Repetitions)
	r.NextReviewAt = s.NextReviewAt
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}
