// Package workflow is the pending/approved/rejected state machine for
// money-movement requests. Balance effects are applied only on approval.
package workflow

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bankdesk/internal/domain"
	"github.com/josh-kwaku/bankdesk/internal/events"
	"github.com/josh-kwaku/bankdesk/internal/repository"
)

type accountRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal, newVersion int64) error
}

type transactionRepo interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	CreateTx(ctx context.Context, tx *sql.Tx, txn *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Transaction, error)
	MarkDecided(ctx context.Context, tx *sql.Tx, id uuid.UUID, status domain.TransactionStatus, managerID uuid.UUID, at time.Time) error
	ListViews(ctx context.Context, f repository.TransactionFilter) ([]domain.TransactionView, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type bankRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bank, error)
}

type Options struct {
	// AutoRejectOverdraft rejects a withdrawal whose approval fails for lack
	// of funds instead of leaving it pending.
	AutoRejectOverdraft bool
}

type Service struct {
	accounts     accountRepo
	transactions transactionRepo
	users        userRepo
	banks        bankRepo
	publisher    events.Publisher
	db           *sql.DB
	opts         Options
	now          func() time.Time
}

func NewService(
	accounts accountRepo,
	transactions transactionRepo,
	users userRepo,
	banks bankRepo,
	publisher events.Publisher,
	db *sql.DB,
	opts Options,
) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		accounts:     accounts,
		transactions: transactions,
		users:        users,
		banks:        banks,
		publisher:    publisher,
		db:           db,
		opts:         opts,
		now:          func() time.Time { return time.Now().UTC() },
	}
}
