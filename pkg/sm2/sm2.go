// Package sm2 implements the SuperMemo-2 spaced repetition algorithm used to
// schedule per-item reviews. All functions are pure; callers persist the
// returned state.
package sm2

import (
	"math"
	"time"
)

// Rating is the learner's self-reported recall quality for a single review.
type Rating string

const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

const (
	// MinEaseFactor is the SM-2 floor below which items never sink.
	MinEaseFactor = 1.3

	passThreshold = 3
	maxBatchSize  = 50
)

// Quality maps a rating onto the 0-5 SM-2 quality scale. Unknown ratings are
// treated as a failed recall.
func (r Rating) Quality() int {
	switch r {
	case RatingHard:
		return 3
	case RatingGood:
		return 4
	case RatingEasy:
		return 5
	default:
		return 0
	}
}

// State is the scheduling state of one (user, item) pair.
type State struct {
	EaseFactor   float64
	IntervalDays int
	Repetitions  int
	NextReviewAt time.Time
}

// NewState returns the state assigned to an item before its first review.
func NewState() State {
	return State{EaseFactor: 2.5, IntervalDays: 1}
}

// Review applies one rated recall to the prior state and returns the next
// state. Failures reset repetitions and schedule a next-day retry; successes
// walk the 1/6/round(interval*EF) ladder. The ease factor is adjusted on
// every review and clamped to MinEaseFactor.
func Review(prior State, rating Rating, now time.Time) State {
	q := rating.Quality()

	next := prior
	next.EaseFactor = nextEaseFactor(prior.EaseFactor, q)

	if q < passThreshold {
		next.Repetitions = 0
		next.IntervalDays = 1
	} else {
		next.Repetitions = prior.Repetitions + 1
		switch next.Repetitions {
		case 1:
			next.IntervalDays = 1
		case 2:
			next.IntervalDays = 6
		default:
			next.IntervalDays = int(math.Round(float64(prior.IntervalDays) * next.EaseFactor))
		}
	}

	next.NextReviewAt = now.AddDate(0, 0, next.IntervalDays)
	return next
}

func nextEaseFactor(ef float64, q int) float64 {
	miss := float64(5 - q)
	ef += 0.1 - miss*(0.08+miss*0.02)
	return math.Max(ef, MinEaseFactor)
}

// BatchSize recommends how many due cards fit into a study session of
// targetMinutes, capped at 50 cards per day.
func BatchSize(dueCount, targetMinutes, avgSecondsPerCard int) int {
	if dueCount <= 0 || targetMinutes <= 0 || avgSecondsPerCard <= 0 {
		return 0
	}
	size := targetMinutes * 60 / avgSecondsPerCard
	if dueCount < size {
		size = dueCount
	}
	if size > maxBatchSize {
		size = maxBatchSize
	}
	return size
}
