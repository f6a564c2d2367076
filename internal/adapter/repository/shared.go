package repository

import (
	"errors"
	"fmt"

	"github.com/examforge/prepcore/internal/entity"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// translatePgError maps low-level postgres failures onto domain errors so
// usecases stay storage agnostic.
func translatePgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return entity.ErrDuplicateQuestion
	}
	return fmt.Errorf("%s: %w", op, err)
}
