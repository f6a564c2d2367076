package repository

import (
	"context"

	"github.com/examforge/prepcore/internal/entity"
)

// StatsRepository reads certification reference data and per-domain attempt
// aggregates. Attempt rows are owned by the surrounding application; this
// core never writes them.
type StatsRepository interface {
	// Domains lists the knowledge domains of a certification with their
	// exam weights. An empty result is a valid (misconfigured) state, not
	// an error.
	Domains(ctx context.Context, certificationID int64) ([]entity.CertificationDomain, error)

	// AttemptStats returns the user's aggregates for the given domains.
	// Domains without attempts are simply absent from the result.
	AttemptStats(ctx context.Context, userID int64, domainIDs []int64) ([]entity.DomainAttemptStats, error)
}
