package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/bankdesk/internal/domain"
)

const bankColumns = `id, name, manager_id, created_at`

type BankRepository struct {
	db *sql.DB
}

func NewBankRepository(db *sql.DB) *BankRepository {
	return &BankRepository{db: db}
}

func (r *BankRepository) List(ctx context.Context) ([]domain.Bank, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bankColumns+` FROM banks ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	banks := []domain.Bank{}
	for rows.Next() {
		b, err := scanBank(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		banks = append(banks, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return banks, nil
}

func (r *BankRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bank, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bankColumns+` FROM banks WHERE id = $1`, id,
	)
	b, err := scanBank(row)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", notFound(err, domain.ErrBankNotFound))
	}
	return b, nil
}

func (r *BankRepository) GetByName(ctx context.Context, name string) (*domain.Bank, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bankColumns+` FROM banks WHERE lower(name) = lower($1)`, name,
	)
	b, err := scanBank(row)
	if err != nil {
		return nil, fmt.Errorf("GetByName: %w", notFound(err, domain.ErrBankNotFound))
	}
	return b, nil
}

// GetByManagerID returns the oldest bank run by managerID.
func (r *BankRepository) GetByManagerID(ctx context.Context, managerID uuid.UUID) (*domain.Bank, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bankColumns+` FROM banks WHERE manager_id = $1
		ORDER BY created_at LIMIT 1`, managerID,
	)
	b, err := scanBank(row)
	if err != nil {
		return nil, fmt.Errorf("GetByManagerID: %w", notFound(err, domain.ErrBankNotFound))
	}
	return b, nil
}

func (r *BankRepository) CreateTx(ctx context.Context, tx *sql.Tx, bank *domain.Bank) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO banks (id, name, manager_id, created_at) VALUES ($1, $2, $3, $4)`,
		bank.ID, bank.Name, bank.ManagerID, bank.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("CreateTx: %w", translateUniqueViolation(err))
	}
	return nil
}

func scanBank(s scanner) (*domain.Bank, error) {
	var b domain.Bank
	if err := s.Scan(&b.ID, &b.Name, &b.ManagerID, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
