package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the application reacts to.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
)

// StoreError is a constraint failure reported by the record store. Message is
// human-readable and safe to show to the caller.
type StoreError struct {
	Code       string
	Constraint string
	Message    string
}

func (e *StoreError) Error() string {
	return e.Message
}

func (e *StoreError) IsUniqueViolation() bool {
	return e.Code == CodeUniqueViolation
}

func (e *StoreError) IsForeignKeyViolation() bool {
	return e.Code == CodeForeignKeyViolation
}

// AsStoreError converts a Postgres constraint error into a StoreError. Any
// other error is returned unchanged.
func AsStoreError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case CodeUniqueViolation, CodeForeignKeyViolation, CodeCheckViolation:
		return &StoreError{
			Code:       pgErr.Code,
			Constraint: pgErr.ConstraintName,
			Message:    pgErr.Message,
		}
	}
	return err
}
