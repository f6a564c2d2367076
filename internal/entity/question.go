package entity

import (
	"strings"
	"time"
)

// Question is a bank entry gated through the similarity engine before being
// persisted.
type Question struct {
	ID              int64     `json:"id"`
	CertificationID int64     `json:"certification_id"`
	DomainID        int64     `json:"domain_id,omitempty"`
	Text            string    `json:"text"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

// Normalize ensures defaults & constraints before persistence.
func (q *Question) Normalize(now time.Time) error {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return ErrInvalidQuestionText
	}
	if q.CreatedBy == "" {
		q.CreatedBy = "generator"
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	return nil
}
