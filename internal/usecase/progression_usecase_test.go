package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/examforge/prepcore/internal/entity"
)

type fakeProgressionRepo struct {
	mu      sync.Mutex
	seq     int64
	records map[int64]*entity.ProgressionRecord
	history []entity.XPHistoryEntry
	now     func() time.Time
}

func newFakeProgressionRepo() *fakeProgressionRepo {
	return &fakeProgressionRepo{
		records: make(map[int64]*entity.ProgressionRecord),
		now:     time.Now,
	}
}

func (r *fakeProgressionRepo) Award(ctx context.Context, userID int64, amount int, source string) (*entity.ProgressionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.awardLocked(userID, amount, source), nil
}

func (r *fakeProgressionRepo) AwardOnce(ctx context.Context, userID int64, amount int, source string) (*entity.ProgressionRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.history {
		if entry.UserID == userID && entry.Source == source {
			return cloneRecord(r.recordLocked(userID)), false, nil
		}
	}
	return r.awardLocked(userID, amount, source), true, nil
}

func (r *fakeProgressionRepo) Get(ctx context.Context, userID int64) (*entity.ProgressionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[userID]
	if !ok {
		return nil, nil
	}
	return cloneRecord(record), nil
}

func (r *fakeProgressionRepo) History(ctx context.Context, userID int64, limit int32) ([]entity.XPHistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]entity.XPHistoryEntry, 0)
	for i := len(r.history) - 1; i >= 0 && len(entries) < int(limit); i-- {
		if r.history[i].UserID == userID {
			entries = append(entries, r.history[i])
		}
	}
	return entries, nil
}

func (r *fakeProgressionRepo) ActivityDays(ctx context.Context, userID int64) ([]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[time.Time]struct{})
	days := make([]time.Time, 0)
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].UserID != userID {
			continue
		}
		day := entity.DateOf(r.history[i].CreatedAt)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	return days, nil
}

func (r *fakeProgressionRepo) awardLocked(userID int64, amount int, source string) *entity.ProgressionRecord {
	record := r.recordLocked(userID)
	record.TotalXP += int64(amount)
	record.CurrentLevel = entity.LevelForXP(record.TotalXP).Level
	record.UpdatedAt = r.now()
	r.seq++
	r.history = append(r.history, entity.XPHistoryEntry{
		ID:        r.seq,
		UserID:    userID,
		Amount:    amount,
		Source:    source,
		CreatedAt: r.now(),
	})
	return cloneRecord(record)
}

func (r *fakeProgressionRepo) recordLocked(userID int64) *entity.ProgressionRecord {
	record, ok := r.records[userID]
	if !ok {
		record = &entity.ProgressionRecord{UserID: userID, CurrentLevel: 1, CreatedAt: r.now()}
		r.records[userID] = record
	}
	return record
}

func cloneRecord(record *entity.ProgressionRecord) *entity.ProgressionRecord {
	copy := *record
	return &copy
}

func TestAwardXPAccumulates(t *testing.T) {
	repo := newFakeProgressionRepo()
	uc := NewProgressionUsecase(repo)
	ctx := context.Background()

	activities := []entity.ActivityType{
		entity.ActivityExamCompleted,  // 50
		entity.ActivityStudySession,   // 20
		entity.ActivityDrillCompleted, // 15
		entity.ActivityReviewSession,  // 10
	}
	var total int64
	for _, activity := range activities {
		result, err := uc.AwardXP(ctx, 42, activity)
		if err != nil {
			t.Fatalf("AwardXP(%s): %v", activity, err)
		}
		total += int64(result.Awarded)
		if result.TotalXP != total {
			t.Errorf("total after %s = %d, want %d", activity, result.TotalXP, total)
		}
	}
	if total != 95 {
		t.Errorf("sum of awards = %d, want 95", total)
	}
}

func TestAwardXPUnknownActivity(t *testing.T) {
	uc := NewProgressionUsecase(newFakeProgressionRepo())
	if _, err := uc.AwardXP(context.Background(), 42, entity.ActivityType("nap")); err != entity.ErrInvalidActivityType {
		t.Errorf("err = %v, want ErrInvalidActivityType", err)
	}
}

func TestAwardXPLevelUp(t *testing.T) {
	repo := newFakeProgressionRepo()
	uc := NewProgressionUsecase(repo)
	ctx := context.Background()

	// 50 + 50 = 100 crosses the level-2 threshold on the second award.
	first, err := uc.AwardXP(ctx, 42, entity.ActivityExamCompleted)
	if err != nil {
		t.Fatal(err)
	}
	if first.LeveledUp {
		t.Error("first award should not level up")
	}
	second, err := uc.AwardXP(ctx, 42, entity.ActivityExamCompleted)
	if err != nil {
		t.Fatal(err)
	}
	if !second.LeveledUp || second.CurrentLevel != 2 || second.Title != "Apprentice" {
		t.Errorf("second award = %+v, want level-up to 2 Apprentice", second)
	}
}

func TestAwardCustomXPIdempotent(t *testing.T) {
	repo := newFakeProgressionRepo()
	uc := NewProgressionUsecase(repo)
	ctx := context.Background()

	first, err := uc.AwardCustomXP(ctx, 42, 50, "achievement:first_exam")
	if err != nil {
		t.Fatal(err)
	}
	if first.AlreadyApplied || first.TotalXP != 50 {
		t.Fatalf("first custom award = %+v, want applied with total 50", first)
	}

	second, err := uc.AwardCustomXP(ctx, 42, 50, "achievement:first_exam")
	if err != nil {
		t.Fatal(err)
	}
	if !second.AlreadyApplied {
		t.Error("repeat award should signal already applied")
	}
	if second.TotalXP != 50 {
		t.Errorf("total after repeat = %d, want 50", second.TotalXP)
	}
	if second.Awarded != 0 {
		t.Errorf("repeat awarded %d, want 0", second.Awarded)
	}
}

func TestAwardCustomXPConcurrentRetries(t *testing.T) {
	repo := newFakeProgressionRepo()
	uc := NewProgressionUsecase(repo)
	ctx := context.Background()

	const attempts = 16
	applied := make(chan bool, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := uc.AwardCustomXP(ctx, 42, 50, "webhook:bonus")
			if err != nil {
				t.Error(err)
				return
			}
			applied <- !result.AlreadyApplied
		}()
	}
	wg.Wait()
	close(applied)

	appliedCount := 0
	for wasApplied := range applied {
		if wasApplied {
			appliedCount++
		}
	}
	if appliedCount != 1 {
		t.Errorf("award applied %d times under concurrency, want exactly 1", appliedCount)
	}
	record, _ := repo.Get(ctx, 42)
	if record.TotalXP != 50 {
		t.Errorf("total = %d, want 50", record.TotalXP)
	}
}

func TestAwardCustomXPValidation(t *testing.T) {
	uc := NewProgressionUsecase(newFakeProgressionRepo())
	ctx := context.Background()

	if _, err := uc.AwardCustomXP(ctx, 0, 50, "x"); err != entity.ErrInvalidUserID {
		t.Errorf("zero user err = %v", err)
	}
	if _, err := uc.AwardCustomXP(ctx, 42, 0, "x"); err != entity.ErrInvalidXPAmount {
		t.Errorf("zero amount err = %v", err)
	}
	if _, err := uc.AwardCustomXP(ctx, 42, 50, "  "); err != entity.ErrInvalidXPSource {
		t.Errorf("blank source err = %v", err)
	}
}

func TestProgressNewUser(t *testing.T) {
	uc := NewProgressionUsecase(newFakeProgressionRepo())
	record, info, err := uc.Progress(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if record.TotalXP != 0 || record.CurrentLevel != 1 {
		t.Errorf("new user record = %+v, want zeroed level 1", record)
	}
	if info.Level != 1 || info.Title != "Novice" {
		t.Errorf("new user level info = %+v", info)
	}
}
