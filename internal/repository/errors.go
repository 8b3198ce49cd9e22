package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

// IsUniqueViolation reports whether the error is a Postgres unique
// constraint violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// conflictOn translates a unique violation into a field-scoped conflict so
// races past the services' proactive existence checks surface as 409 rather
// than 500. Other errors are wrapped with op for context.
func conflictOn(err error, field, message, op string) error {
	if IsUniqueViolation(err) {
		return appErrors.Conflictf(field, "%s", message)
	}
	return fmt.Errorf("%s: %w", op, err)
}
