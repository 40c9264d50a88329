package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bankdesk/internal/domain"
)

const transactionColumns = `id, account_id, type, amount, status, transfer_id,
	decided_by, decided_at, created_at, updated_at`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	if err := insertTransaction(ctx, r.db, txn); err != nil {
		return fmt.Errorf("Create: %w", translateNumericOverflow(err, domain.ErrInvalidAmount))
	}
	return nil
}

func (r *TransactionRepository) CreateTx(ctx context.Context, tx *sql.Tx, txn *domain.Transaction) error {
	if err := insertTransaction(ctx, tx, txn); err != nil {
		return fmt.Errorf("CreateTx: %w", translateNumericOverflow(err, domain.ErrInvalidAmount))
	}
	return nil
}

func insertTransaction(ctx context.Context, e execer, t *domain.Transaction) error {
	_, err := e.ExecContext(ctx,
		`INSERT INTO transactions (
			id, account_id, type, amount, status, transfer_id,
			decided_by, decided_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.AccountID, t.Type, t.Amount, t.Status, t.TransferID,
		t.DecidedBy, t.DecidedAt, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id,
	)
	t, err := scanTransaction(row)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", notFound(err, domain.ErrTransactionNotFound))
	}
	return t, nil
}

func (r *TransactionRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Transaction, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id,
	)
	t, err := scanTransaction(row)
	if err != nil {
		return nil, fmt.Errorf("GetForUpdate: %w", notFound(err, domain.ErrTransactionNotFound))
	}
	return t, nil
}

// MarkDecided moves a pending transaction to status. A transaction that has
// already left pending is reported as ErrAlreadyDecided.
func (r *TransactionRepository) MarkDecided(ctx context.Context, tx *sql.Tx, id uuid.UUID, status domain.TransactionStatus, managerID uuid.UUID, at time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE transactions
		SET status = $1, decided_by = $2, decided_at = $3, updated_at = $3
		WHERE id = $4 AND status = $5`,
		status, managerID, at, id, domain.TransactionStatusPending,
	)
	if err != nil {
		return fmt.Errorf("MarkDecided: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("MarkDecided: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("MarkDecided: %w", domain.ErrAlreadyDecided)
	}
	return nil
}

// TransactionFilter narrows ListViews. Nil fields are unconstrained.
type TransactionFilter struct {
	UserID *uuid.UUID
	BankID *uuid.UUID
	Status *domain.TransactionStatus
}

const transactionViewColumns = `t.id, t.account_id, t.type, t.amount, t.status, t.transfer_id,
	t.decided_by, t.decided_at, t.created_at, t.updated_at,
	a.account_number, a.account_holder_name, b.id, b.name, u.id, u.name`

// ListViews returns transactions joined through account to bank and owner,
// newest first.
func (r *TransactionRepository) ListViews(ctx context.Context, f TransactionFilter) ([]domain.TransactionView, error) {
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
		where = append(where, fmt.Sprintf("t.status = $%d", len(args)))
	}

	query := `SELECT ` + transactionViewColumns + ` FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		JOIN banks b ON b.id = a.bank_id
		JOIN users u ON u.id = a.user_id`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY t.created_at DESC, t.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListViews: %w", err)
	}
	defer rows.Close()

	views := []domain.TransactionView{}
	for rows.Next() {
		var v domain.TransactionView
		err := rows.Scan(
			&v.ID, &v.AccountID, &v.Type, &v.Amount, &v.Status, &v.TransferID,
			&v.DecidedBy, &v.DecidedAt, &v.CreatedAt, &v.UpdatedAt,
			&v.AccountNumber, &v.AccountHolderName, &v.BankID, &v.BankName,
			&v.OwnerID, &v.OwnerName,
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

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := s.Scan(
		&t.ID, &t.AccountID, &t.Type, &t.Amount, &t.Status, &t.TransferID,
		&t.DecidedBy, &t.DecidedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
