package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// IsExclusionConflict reports whether err is a Postgres exclusion-constraint
// violation (SQLSTATE 23P01). The bookings table carries an EXCLUDE USING gist
// constraint as the structural guard against double booking; a trip of that
// constraint is surfaced to callers exactly like the application-level
// conflict check.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01"
	}
	return false
}
