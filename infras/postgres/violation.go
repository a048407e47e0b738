package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// SQLSTATE classes the services translate into client errors.
const (
	UniqueViolation     pq.ErrorCode = "23505"
	ForeignKeyViolation pq.ErrorCode = "23503"
	ExclusionViolation  pq.ErrorCode = "23P01"
)

// IsViolation reports whether err, at any depth, is a postgres error with code.
func IsViolation(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && pqErr.Code == code
}
