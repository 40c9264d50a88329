package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/josh-kwaku/bankdesk/internal/domain"
)

type scanner interface {
	Scan(dest ...any) error
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const (
	uniqueViolation = "23505"
	numericOverflow = "22003"
)

// constraintErrors maps unique constraints to the domain conflicts they signal.
var constraintErrors = map[string]error{
	"users_email_key":             domain.ErrEmailExists,
	"users_phone_key":             domain.ErrPhoneExists,
	"banks_name_key":              domain.ErrBankExists,
	"idx_banks_lower_name":        domain.ErrBankExists,
	"accounts_account_number_key": domain.ErrAccountNumberTaken,
}

// translateUniqueViolation returns the domain conflict for a unique violation,
// or err unchanged.
func translateUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return err
	}
	if mapped, ok := constraintErrors[pqErr.Constraint]; ok {
		return mapped
	}
	return err
}

// translateNumericOverflow maps a value too large for a NUMERIC column to
// sentinel, or returns err unchanged.
func translateNumericOverflow(err, sentinel error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == numericOverflow {
		return sentinel
	}
	return err
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}
