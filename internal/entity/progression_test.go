package entity

import "testing"

func TestRewardFor(t *testing.T) {
	if amount, err := RewardFor(ActivityExamCompleted); err != nil || amount != 50 {
		t.Errorf("exam reward = (%d, %v), want (50, nil)", amount, err)
	}
	if _, err := RewardFor(ActivityType("unknown")); err != ErrInvalidActivityType {
		t.Errorf("unknown activity err = %v, want ErrInvalidActivityType", err)
	}
}

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		totalXP   int64
		wantLevel int32
		wantTitle string
	}{
		{0, 1, "Novice"},
		{99, 1, "Novice"},
		{100, 2, "Apprentice"},
		{249, 2, "Apprentice"},
		{250, 3, "Practitioner"},
		{10999, 9, "Grandmaster"},
		{11000, 10, "Legend"},
		{50000, 10, "Legend"},
	}
	for _, tc := range cases {
		info := LevelForXP(tc.totalXP)
		if info.Level != tc.wantLevel || info.Title != tc.wantTitle {
			t.Errorf("LevelForXP(%d) = level %d %q, want %d %q",
				tc.totalXP, info.Level, info.Title, tc.wantLevel, tc.wantTitle)
		}
	}
}

func TestLevelProgress(t *testing.T) {
	info := LevelForXP(175) // halfway between 100 and 250
	if info.Level != 2 {
		t.Fatalf("level = %d, want 2", info.Level)
	}
	if info.XPToNextLevel != 75 {
		t.Errorf("xp to next = %d, want 75", info.XPToNextLevel)
	}
	if info.LevelProgress != 50 {
		t.Errorf("progress = %d, want 50", info.LevelProgress)
	}
}

func TestLevelProgressAtMax(t *testing.T) {
	info := LevelForXP(999999)
	if info.XPToNextLevel != 0 {
		t.Errorf("xp to next at max level = %d, want 0", info.XPToNextLevel)
	}
	if info.LevelProgress != 100 {
		t.Errorf("progress at max level = %d, want 100", info.LevelProgress)
	}
}
