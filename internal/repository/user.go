package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/josh-kwaku/bankdesk/internal/domain"
)

const userColumns = `id, name, email, phone, password_hash, role, created_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", notFound(err, domain.ErrNotFound))
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("GetByEmail: %w", notFound(err, domain.ErrNotFound))
	}
	return u, nil
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE phone = $1`, phone,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("GetByPhone: %w", notFound(err, domain.ErrNotFound))
	}
	return u, nil
}

// ListManagersByName matches name case-insensitively. Names are not unique,
// so callers disambiguate by the bank the manager runs.
func (r *UserRepository) ListManagersByName(ctx context.Context, name string) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		WHERE lower(name) = lower($1) AND role = $2
		ORDER BY created_at`,
		name, domain.RoleManager,
	)
	if err != nil {
		return nil, fmt.Errorf("ListManagersByName: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("ListManagersByName: scan: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListManagersByName: rows: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := insertUser(ctx, r.db, user); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *UserRepository) CreateTx(ctx context.Context, tx *sql.Tx, user *domain.User) error {
	if err := insertUser(ctx, tx, user); err != nil {
		return fmt.Errorf("CreateTx: %w", err)
	}
	return nil
}

func insertUser(ctx context.Context, e execer, u *domain.User) error {
	_, err := e.ExecContext(ctx,
		`INSERT INTO users (id, name, email, phone, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.CreatedAt,
	)
	return translateUniqueViolation(err)
}

func scanUser(s scanner) (*domain.User, error) {
	var u domain.User
	err := s.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone,
		&u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
