package database

import (
	"strings"

	"github.com/lib/pq"
	"github.com/obatqu/obatqu-backend/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError with a
// client-safe message. Returns nil if the error is not a pq.Error, in
// which case the caller propagates the original error.
func MapPQError(err error) *errors.AppError {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return nil
	}

	switch pqErr.Code {
	// Unique constraint violation
	case "23505":
		if strings.Contains(pqErr.Constraint, "username") {
			return errors.Conflict("username already exists")
		}
		return errors.Conflict("a record with these values already exists")

	// Foreign key violation
	case "23503":
		return errors.BadRequest("referenced record does not exist")

	// Not null violation
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	// Check constraint violation
	case "23514":
		return errors.BadRequest("data validation failed: " + pqErr.Constraint)

	default:
		return nil
	}
}
