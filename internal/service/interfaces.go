package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bankdesk/internal/domain"
	"github.com/josh-kwaku/bankdesk/internal/repository"
)

type userRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	ListManagersByName(ctx context.Context, name string) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	CreateTx(ctx context.Context, tx *sql.Tx, user *domain.User) error
}

type userChecker interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type bankRepository interface {
	List(ctx context.Context) ([]domain.Bank, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bank, error)
	GetByName(ctx context.Context, name string) (*domain.Bank, error)
	GetByManagerID(ctx context.Context, managerID uuid.UUID) (*domain.Bank, error)
	CreateTx(ctx context.Context, tx *sql.Tx, bank *domain.Bank) error
}

// BankCache holds the bank list between reads. A nil BankCache disables
// caching.
type BankCache interface {
	Get(ctx context.Context) ([]domain.Bank, bool, error)
	Set(ctx context.Context, banks []domain.Bank) error
	Invalidate(ctx context.Context) error
}

type accountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) error
	ListViews(ctx context.Context, f repository.AccountFilter) ([]domain.AccountView, error)
}

// accountQueries is the read side of the account ledger.
type accountQueries interface {
	GetAccountsForUser(ctx context.Context, userID uuid.UUID) ([]domain.AccountView, error)
	ListForBank(ctx context.Context, bankID uuid.UUID, status *domain.AccountStatus) ([]domain.AccountView, error)
}

type managerBankFinder interface {
	FindManagerBank(ctx context.Context, managerID uuid.UUID) (*domain.Bank, error)
}

// transactionQueries is the read side of the transaction workflow.
type transactionQueries interface {
	ListPendingForBank(ctx context.Context, bankID uuid.UUID) ([]domain.TransactionView, error)
	ListAllForBank(ctx context.Context, bankID uuid.UUID) ([]domain.TransactionView, error)
	ListApprovedForUser(ctx context.Context, userID uuid.UUID) ([]domain.TransactionView, error)
}

// requireManager loads id and fails with ErrForbidden unless it is a manager.
func requireManager(ctx context.Context, users userChecker, id uuid.UUID) (*domain.User, error) {
	u, err := users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if !u.IsManager() {
		return nil, domain.ErrForbidden
	}
	return u, nil
}
