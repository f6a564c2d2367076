package entity

import (
	"sort"
	"time"
)

// streakMilestones are streak lengths that trigger a one-time celebration.
var streakMilestones = map[int32]struct{}{7: {}, 30: {}, 100: {}, 365: {}}

// StreakRecord tracks consecutive UTC calendar days with at least one
// completed activity. LongestStreak never drops below CurrentStreak.
type StreakRecord struct {
	UserID           int64
	CurrentStreak    int32
	LongestStreak    int32
	LastActivityDate *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DateOf truncates a timestamp to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns b-a in whole calendar days; both inputs are truncated
// to UTC dates first. UTC has no daylight-saving jumps, so the division is
// exact.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)) / (24 * time.Hour))
}

// Advance applies one activity on the given day to the streak. Repeat calls
// on the same day are no-ops, a one-day gap extends the streak and anything
// longer restarts it at 1. It returns whether the record changed.
func (s *StreakRecord) Advance(today time.Time) bool {
	day := DateOf(today)

	if s.LastActivityDate == nil {
		s.CurrentStreak = 1
		s.LongestStreak = 1
		s.LastActivityDate = &day
		return true
	}

	switch gap := DaysBetween(*s.LastActivityDate, day); {
	case gap <= 0:
		return false
	case gap == 1:
		s.CurrentStreak++
	default:
		s.CurrentStreak = 1
	}
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.LastActivityDate = &day
	return true
}

// MilestoneHit reports whether the current streak sits exactly on a
// celebration milestone.
func (s *StreakRecord) MilestoneHit() bool {
	_, ok := streakMilestones[s.CurrentStreak]
	return ok
}

// DeriveStreak recomputes a current streak from scratch given the days a
// user was active. It scans distinct activity dates backwards from today and
// stops at the first gap longer than one day. Used to reconcile drift in
// stored streak records.
func DeriveStreak(activityDays []time.Time, today time.Time) int32 {
	if len(activityDays) == 0 {
		return 0
	}

	distinct := make(map[time.Time]struct{}, len(activityDays))
	for _, d := range activityDays {
		distinct[DateOf(d)] = struct{}{}
	}
	days := make([]time.Time, 0, len(distinct))
	for d := range distinct {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	cursor := DateOf(today)
	// A streak survives a missing "today" as long as yesterday is present.
	if gap := DaysBetween(days[0], cursor); gap > 1 {
		return 0
	}
	cursor = days[0]

	var streak int32 = 1
	for _, day := range days[1:] {
		if DaysBetween(day, cursor) != 1 {
			break
		}
		streak++
		cursor = day
	}
	return streak
}
