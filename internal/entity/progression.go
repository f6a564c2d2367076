package entity

import "time"

// ActivityType tags a completed learning activity for XP purposes.
type ActivityType string

const (
	ActivityExamCompleted  ActivityType = "exam_completed"
	ActivityStudySession   ActivityType = "study_session"
	ActivityDrillCompleted ActivityType = "drill_completed"
	ActivityReviewSession  ActivityType = "review_session"
)

// xpRewards is the fixed reward table for standard activities.
var xpRewards = map[ActivityType]int{
	ActivityExamCompleted:  50,
	ActivityStudySession:   20,
	ActivityDrillCompleted: 15,
	ActivityReviewSession:  10,
}

// RewardFor returns the XP amount for an activity, or ErrInvalidActivityType
// for tags outside the reward table.
func RewardFor(activity ActivityType) (int, error) {
	amount, ok := xpRewards[activity]
	if !ok {
		return 0, ErrInvalidActivityType
	}
	return amount, nil
}

// ProgressionRecord is the per-user XP accumulator. TotalXP never decreases.
type ProgressionRecord struct {
	UserID       int64
	TotalXP      int64
	CurrentLevel int32
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// XPHistoryEntry is one append-only ledger line. For non-repeatable sources
// the (UserID, Source) pair doubles as the idempotency key.
type XPHistoryEntry struct {
	ID        int64
	UserID    int64
	Amount    int
	Source    string
	CreatedAt time.Time
}

// LevelThreshold maps a level to the minimum total XP that unlocks it.
type LevelThreshold struct {
	Level int32
	MinXP int64
	Title string
}

// levelThresholds is ordered ascending by MinXP; the first entry must start
// at zero so every XP value maps to a level.
var levelThresholds = []LevelThreshold{
	{Level: 1, MinXP: 0, Title: "Novice"},
	{Level: 2, MinXP: 100, Title: "Apprentice"},
	{Level: 3, MinXP: 250, Title: "Practitioner"},
	{Level: 4, MinXP: 500, Title: "Skilled"},
	{Level: 5, MinXP: 1000, Title: "Specialist"},
	{Level: 6, MinXP: 2000, Title: "Expert"},
	{Level: 7, MinXP: 3500, Title: "Veteran"},
	{Level: 8, MinXP: 5500, Title: "Master"},
	{Level: 9, MinXP: 8000, Title: "Grandmaster"},
	{Level: 10, MinXP: 11000, Title: "Legend"},
}

// LevelInfo describes where a total XP value sits on the level ladder.
type LevelInfo struct {
	Level         int32
	Title         string
	XPToNextLevel int64
	// LevelProgress is the percentage (0-100) of the way from the current
	// threshold to the next; 100 at the maximum level.
	LevelProgress int32
}

// LevelForXP returns the highest threshold whose MinXP does not exceed
// totalXP.
func LevelForXP(totalXP int64) LevelInfo {
	idx := 0
	for i, th := range levelThresholds {
		if th.MinXP > totalXP {
			break
		}
		idx = i
	}
	current := levelThresholds[idx]
	info := LevelInfo{Level: current.Level, Title: current.Title}

	if idx == len(levelThresholds)-1 {
		info.LevelProgress = 100
		return info
	}

	next := levelThresholds[idx+1]
	info.XPToNextLevel = next.MinXP - totalXP
	span := next.MinXP - current.MinXP
	info.LevelProgress = int32((totalXP - current.MinXP) * 100 / span)
	return info
}

// AwardResult is the outcome of a (possibly idempotent) XP award.
type AwardResult struct {
	Awarded      int
	TotalXP      int64
	CurrentLevel int32
	Title        string
	LeveledUp    bool
	// AlreadyApplied is set when an idempotent award found an existing
	// history entry for its source; no state changed.
	AlreadyApplied bool
}
