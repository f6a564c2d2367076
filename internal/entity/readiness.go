package entity

import "time"

// CertificationDomain is reference data: one knowledge domain of a
// certification together with its share of the exam.
type CertificationDomain struct {
	ID              int64
	CertificationID int64
	Name            string
	ExamWeight      float64
}

// DomainAttemptStats aggregates a user's attempts in one domain. Rows are
// written by the surrounding application; this core only reads them.
type DomainAttemptStats struct {
	UserID          int64
	DomainID        int64
	TotalAttempts   int64
	CorrectAttempts int64
	LastAttemptedAt *time.Time
}

// Confidence grades how much attempt data backs a readiness score.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// DomainScore is one domain's contribution to the readiness result.
type DomainScore struct {
	DomainID   int64
	DomainName string
	Score      float64
	Coverage   float64
	Accuracy   float64
	Recency    float64
	Volume     float64
	ExamWeight float64
}

// Recommendation points the learner at the weakest domains, lowest score
// first.
type Recommendation struct {
	DomainID   int64
	DomainName string
	Score      float64
	Action     string
}

// ReadinessResult is the derived, cacheable exam-readiness snapshot. It is
// never persisted.
type ReadinessResult struct {
	UserID          int64
	CertificationID int64
	Overall         float64
	Confidence      Confidence
	Domains         []DomainScore
	Recommendations []Recommendation
	ComputedAt      time.Time
}
