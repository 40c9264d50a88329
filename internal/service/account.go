package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bankdesk/internal/domain"
	"github.com/josh-kwaku/bankdesk/internal/events"
	"github.com/josh-kwaku/bankdesk/internal/logging"
	"github.com/josh-kwaku/bankdesk/internal/repository"
)

type AccountService struct {
	accounts  accountRepository
	users     userChecker
	banks     bankRepository
	publisher events.Publisher

	numberAttempts int
	newNumber      func() (string, error)
}

func NewAccountService(accounts accountRepository, users userChecker, banks bankRepository, publisher events.Publisher, numberAttempts int) *AccountService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if numberAttempts < 1 {
		numberAttempts = 1
	}
	return &AccountService{
		accounts:       accounts,
		users:          users,
		banks:          banks,
		publisher:      publisher,
		numberAttempts: numberAttempts,
		newNumber:      generateAccountNumber,
	}
}

func (s *AccountService) OpenAccount(ctx context.Context, userID, bankID uuid.UUID, holderName string) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	holderName = strings.TrimSpace(holderName)
	if holderName == "" {
		return nil, fmt.Errorf("OpenAccount: holder name: %w", domain.ErrInvalidRequest)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("OpenAccount: %w", domain.ErrInvalidUser)
		}
		return nil, fmt.Errorf("OpenAccount: %w", err)
	}
	if user.Role != domain.RoleCustomer {
		return nil, fmt.Errorf("OpenAccount: %w", domain.ErrInvalidUser)
	}

	if _, err := s.banks.GetByID(ctx, bankID); err != nil {
		return nil, fmt.Errorf("OpenAccount: %w", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:                uuid.New(),
		UserID:            userID,
		BankID:            bankID,
		AccountHolderName: holderName,
		Status:            domain.AccountStatusPending,
		Balance:           decimal.Zero,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	for attempt := 1; ; attempt++ {
		number, err := s.newNumber()
		if err != nil {
			return nil, fmt.Errorf("OpenAccount: %w", err)
		}
		account.AccountNumber = number

		err = s.accounts.Create(ctx, account)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrAccountNumberTaken) || attempt >= s.numberAttempts {
			return nil, fmt.Errorf("OpenAccount: %w", err)
		}
		log.Warn("account number collision, regenerating", "attempt", attempt)
	}

	log.Info("account opened",
		"account_id", account.ID,
		"user_id", userID,
		"bank_id", bankID,
	)
	return account, nil
}

// ApproveAccount records a manager's decision on an account. A decided
// account may be decided again; the latest decision wins.
func (s *AccountService) ApproveAccount(ctx context.Context, accountID, managerID uuid.UUID, decision domain.Decision) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	if !decision.IsValid() {
		return nil, fmt.Errorf("ApproveAccount: %w", domain.ErrInvalidDecision)
	}

	if _, err := requireManager(ctx, s.users, managerID); err != nil {
		return nil, fmt.Errorf("ApproveAccount: %w", err)
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("ApproveAccount: %w", err)
	}

	bank, err := s.banks.GetByID(ctx, account.BankID)
	if err != nil {
		return nil, fmt.Errorf("ApproveAccount: %w", err)
	}
	if !bank.ManagedBy(managerID) {
		return nil, fmt.Errorf("ApproveAccount: %w", domain.ErrNotBankManager)
	}

	status := domain.AccountStatus(decision)
	if account.Status != domain.AccountStatusPending && account.Status != status {
		log.Warn("account re-decided", "account_id", accountID, "from", account.Status, "to", status)
	}

	if err := s.accounts.UpdateStatus(ctx, accountID, status); err != nil {
		return nil, fmt.Errorf("ApproveAccount: %w", err)
	}
	account.Status = status

	if err := s.publisher.Publish(ctx, events.AccountDecided{
		AccountID: account.ID,
		BankID:    bank.ID,
		ManagerID: managerID,
		Status:    string(status),
		DecidedAt: time.Now().UTC(),
	}); err != nil {
		log.Warn("failed to publish account decision", "account_id", accountID, "error", err)
	}

	log.Info("account decided", "account_id", accountID, "manager_id", managerID, "status", status)
	return account, nil
}

func (s *AccountService) GetAccountsForUser(ctx context.Context, userID uuid.UUID) ([]domain.AccountView, error) {
	views, err := s.accounts.ListViews(ctx, repository.AccountFilter{UserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("GetAccountsForUser: %w", err)
	}
	return views, nil
}

// ListForBank returns the bank's accounts, optionally only those in status.
func (s *AccountService) ListForBank(ctx context.Context, bankID uuid.UUID, status *domain.AccountStatus) ([]domain.AccountView, error) {
	views, err := s.accounts.ListViews(ctx, repository.AccountFilter{BankID: &bankID, Status: status})
	if err != nil {
		return nil, fmt.Errorf("ListForBank: %w", err)
	}
	return views, nil
}

var (
	accountNumberFloor = big.NewInt(100_000_000_000)
	accountNumberSpan  = big.NewInt(900_000_000_000)
)

// generateAccountNumber draws uniformly from 100000000000..999999999999.
func generateAccountNumber() (string, error) {
	n, err := rand.Int(rand.Reader, accountNumberSpan)
	if err != nil {
		return "", fmt.Errorf("generateAccountNumber: %w", err)
	}
	return n.Add(n, accountNumberFloor).String(), nil
}
