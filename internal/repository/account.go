package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bankdesk/internal/domain"
)

const accountColumns = `id, user_id, bank_id, account_holder_name, status,
	balance, version, account_number, created_at, updated_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", notFound(err, domain.ErrAccountNotFound))
	}
	return a, nil
}

func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_number = $1`, number,
	)
	a, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("GetByNumber: %w", notFound(err, domain.ErrAccountNotFound))
	}
	return a, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (
			id, user_id, bank_id, account_holder_name, status,
			balance, version, account_number, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		account.ID, account.UserID, account.BankID, account.AccountHolderName, account.Status,
		account.Balance, account.Version, account.AccountNumber, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", translateUniqueViolation(err))
	}
	return nil
}

// UpdateStatus overwrites the account status unconditionally.
func (r *AccountRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateStatus: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateStatus: %w", domain.ErrAccountNotFound)
	}
	return nil
}

func (r *AccountRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("GetForUpdate: %w", notFound(err, domain.ErrAccountNotFound))
	}
	return a, nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal, newVersion int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = $1, version = $2, updated_at = $3
		WHERE id = $4 AND version = $5`,
		newBalance, newVersion, time.Now().UTC(), id, newVersion-1,
	)
	if err != nil {
		return fmt.Errorf("UpdateBalance: %w", translateNumericOverflow(err, domain.ErrBalanceLimit))
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateBalance: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateBalance: %w", domain.ErrVersionConflict)
	}
	return nil
}

// AccountFilter narrows ListViews. Nil fields are unconstrained.
type AccountFilter struct {
	UserID *uuid.UUID
	BankID *uuid.UUID
	Status *domain.AccountStatus
}

const accountViewColumns = `a.id, a.user_id, a.bank_id, a.account_holder_name, a.status,
	a.balance, a.version, a.account_number, a.created_at, a.updated_at,
	b.name, u.name, u.email`

// ListViews returns accounts joined with bank and owner, newest first.
func (r *AccountRepository) ListViews(ctx context.Context, f AccountFilter) ([]domain.AccountView, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != nil {
		args = append(args, *f.UserID)
		where = append(where, fmt.Sprintf("a.user_id = $%d", len(args)))
	}
	if f.BankID != nil {
		args = append(args, *f.BankID)
		where = append(where, fmt.Sprintf("a.bank_id = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		where = append(where, fmt.Sprintf("a.status = $%d", len(args)))
	}

	query := `SELECT ` + accountViewColumns + ` FROM accounts a
		JOIN banks b ON b.id = a.bank_id
		JOIN users u ON u.id = a.user_id`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY a.created_at DESC, a.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListViews: %w", err)
	}
	defer rows.Close()

	views := []domain.AccountView{}
	for rows.Next() {
		var v domain.AccountView
		err := rows.Scan(
			&v.ID, &v.UserID, &v.BankID, &v.AccountHolderName, &v.Status,
			&v.Balance, &v.Version, &v.AccountNumber, &v.CreatedAt, &v.UpdatedAt,
			&v.BankName, &v.OwnerName, &v.OwnerEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("ListViews: scan: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListViews: rows: %w", err)
	}
	return views, nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(
		&a.ID, &a.UserID, &a.BankID, &a.AccountHolderName, &a.Status,
		&a.Balance, &a.Version, &a.AccountNumber, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
