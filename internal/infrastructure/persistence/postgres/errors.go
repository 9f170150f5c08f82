package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the journal reacts to.
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// constraintUserEmail is the case-insensitive unique index on users.email.
const constraintUserEmail = "idx_users_email"

func pgCode(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// isUniqueViolation reports a unique_violation on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	code, name := pgCode(err)
	return code == codeUniqueViolation && name == constraint
}

// isSerializationFailure reports errors that succeed when the transaction
// is simply run again.
func isSerializationFailure(err error) bool {
	code, _ := pgCode(err)
	return code == codeSerializationFailure || code == codeDeadlockDetected
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
