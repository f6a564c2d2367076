package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/examforge/prepcore/internal/cache"
	"github.com/examforge/prepcore/internal/entity"
	"github.com/examforge/prepcore/internal/repository"
)

const (
	// coverageTargetAttempts is the attempt count at which a domain counts
	// as covered.
	coverageTargetAttempts = 10
	// volumeTargetAttempts is the attempt count at which practice volume
	// saturates.
	volumeTargetAttempts = 100
	// recencyDecayDays controls the exponential decay of the recency
	// sub-score.
	recencyDecayDays = 30

	coverageWeight = 0.20
	accuracyWeight = 0.50
	recencyWeight  = 0.20
	volumeWeight   = 0.10

	// recommendationCutoff is the composite score below which a domain
	// earns a recommendation.
	recommendationCutoff = 70
	// confidenceMinAttempted is the minimum number of attempted domains
	// before a score is more than a guess.
	confidenceMinAttempted = 5

	// DefaultCacheTTL and DefaultCacheSize bound the readiness cache.
	DefaultCacheTTL  = 5 * time.Minute
	DefaultCacheSize = 1000
)

// ReadinessUsecase computes and caches composite exam-readiness scores.
type ReadinessUsecase interface {
	// CalculateReadiness returns the cached score for the pair when it is
	// still fresh, recomputing otherwise. A certification without domains
	// yields a zero, low-confidence result.
	CalculateReadiness(ctx context.Context, userID, certificationID int64) (*entity.ReadinessResult, error)

	// Invalidate drops the cached score for one (user, certification)
	// pair.
	Invalidate(userID, certificationID int64)

	// InvalidateAll drops every cached score of a user.
	InvalidateAll(userID int64)

	// SweepCache removes expired cache entries and returns the count.
	SweepCache() int
}

type readinessKey struct {
	userID          int64
	certificationID int64
}

// NewReadinessUsecase wires the stats repository with a bounded result
// cache.
func NewReadinessUsecase(stats repository.StatsRepository) ReadinessUsecase {
	return &readinessUsecase{
		stats: stats,
		cache: cache.New[readinessKey, *entity.ReadinessResult](DefaultCacheSize, DefaultCacheTTL),
		clock: time.Now,
	}
}

type readinessUsecase struct {
	stats repository.StatsRepository
	cache *cache.TTLCache[readinessKey, *entity.ReadinessResult]
	clock func() time.Time
}

func (u *readinessUsecase) CalculateReadiness(ctx context.Context, userID, certificationID int64) (*entity.ReadinessResult, error) {
	if userID <= 0 {
		return nil, entity.ErrInvalidUserID
	}

	key := readinessKey{userID: userID, certificationID: certificationID}
	if cached, ok := u.cache.Get(key); ok {
		return cached, nil
	}

	result, err := u.compute(ctx, userID, certificationID)
	if err != nil {
		return nil, err
	}
	u.cache.Set(key, result)
	return result, nil
}

func (u *readinessUsecase) Invalidate(userID, certificationID int64) {
	u.cache.Delete(readinessKey{userID: userID, certificationID: certificationID})
}

func (u *readinessUsecase) InvalidateAll(userID int64) {
	u.cache.DeleteFunc(func(key readinessKey) bool { return key.userID == userID })
}

func (u *readinessUsecase) SweepCache() int {
	return u.cache.Sweep()
}

func (u *readinessUsecase) compute(ctx context.Context, userID, certificationID int64) (*entity.ReadinessResult, error) {
	now := u.clock()

	domains, err := u.stats.Domains(ctx, certificationID)
	if err != nil {
		return nil, err
	}

	result := &entity.ReadinessResult{
		UserID:          userID,
		CertificationID: certificationID,
		Confidence:      entity.ConfidenceLow,
		Domains:         []entity.DomainScore{},
		Recommendations: []entity.Recommendation{},
		ComputedAt:      now,
	}
	if len(domains) == 0 {
		return result, nil
	}

	domainIDs := make([]int64, len(domains))
	for i, d := range domains {
		domainIDs[i] = d.ID
	}
	stats, err := u.stats.AttemptStats(ctx, userID, domainIDs)
	if err != nil {
		return nil, err
	}
	byDomain := make(map[int64]entity.DomainAttemptStats, len(stats))
	for _, s := range stats {
		byDomain[s.DomainID] = s
	}

	var (
		weightedSum float64
		totalWeight float64
		attempted   int
		allCovered  = true
	)
	for _, domain := range domains {
		score := scoreDomain(domain, byDomain[domain.ID], now)
		result.Domains = append(result.Domains, score)

		weightedSum += score.Score * domain.ExamWeight
		totalWeight += domain.ExamWeight
		if byDomain[domain.ID].TotalAttempts > 0 {
			attempted++
		}
		if score.Coverage < 1 {
			allCovered = false
		}
	}
	if totalWeight > 0 {
		result.Overall = weightedSum / totalWeight
	}

	switch {
	case attempted < confidenceMinAttempted:
		result.Confidence = entity.ConfidenceLow
	case allCovered:
		result.Confidence = entity.ConfidenceHigh
	default:
		result.Confidence = entity.ConfidenceMedium
	}

	result.Recommendations = recommend(result.Domains, byDomain)
	return result, nil
}

// scoreDomain derives the four normalized sub-scores and the 0-100
// composite for one domain.
func scoreDomain(domain entity.CertificationDomain, stats entity.DomainAttemptStats, now time.Time) entity.DomainScore {
	score := entity.DomainScore{
		DomainID:   domain.ID,
		DomainName: domain.Name,
		ExamWeight: domain.ExamWeight,
	}
	if stats.TotalAttempts > 0 {
		score.Coverage = math.Min(float64(stats.TotalAttempts)/coverageTargetAttempts, 1)
		score.Accuracy = float64(stats.CorrectAttempts) / float64(stats.TotalAttempts)
		score.Volume = math.Min(float64(stats.TotalAttempts)/volumeTargetAttempts, 1)
		if stats.LastAttemptedAt != nil {
			days := entity.DaysBetween(*stats.LastAttemptedAt, now)
			if days < 0 {
				days = 0
			}
			score.Recency = math.Exp(-float64(days) / recencyDecayDays)
		}
	}
	score.Score = 100 * (coverageWeight*score.Coverage +
		accuracyWeight*score.Accuracy +
		recencyWeight*score.Recency +
		volumeWeight*score.Volume)
	return score
}

func recommend(scores []entity.DomainScore, byDomain map[int64]entity.DomainAttemptStats) []entity.Recommendation {
	recommendations := make([]entity.Recommendation, 0)
	for _, score := range scores {
		if score.Score >= recommendationCutoff {
			continue
		}
		recommendations = append(recommendations, entity.Recommendation{
			DomainID:   score.DomainID,
			DomainName: score.DomainName,
			Score:      score.Score,
			Action:     actionFor(score, byDomain[score.DomainID]),
		})
	}
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score < recommendations[j].Score
	})
	return recommendations
}

// actionFor picks the highest-priority remedial action for a weak domain.
func actionFor(score entity.DomainScore, stats entity.DomainAttemptStats) string {
	switch {
	case stats.TotalAttempts == 0:
		return fmt.Sprintf("Start practicing %s", score.DomainName)
	case score.Accuracy < 0.5:
		return fmt.Sprintf("Improve accuracy in %s with focused drills", score.DomainName)
	case score.Coverage < 0.5:
		return fmt.Sprintf("Increase practice volume in %s", score.DomainName)
	case score.Recency < 0.3:
		return fmt.Sprintf("Review %s, it has been a while", score.DomainName)
	default:
		return fmt.Sprintf("Continue practicing %s", score.DomainName)
	}
}
