package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bankdesk/internal/domain"
	"github.com/josh-kwaku/bankdesk/internal/logging"
)

type SubmitRequest struct {
	AccountID uuid.UUID
	Type      domain.TransactionType
	Amount    decimal.Decimal
}

func validateSubmit(req SubmitRequest) error {
	if !req.Type.IsValid() {
		return domain.ErrInvalidTransactionType
	}
	return domain.ValidateAmount(req.Amount)
}

// Submit records a pending deposit or withdrawal against an approved account.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*domain.Transaction, error) {
	log := logging.FromContext(ctx)

	if err := validateSubmit(req); err != nil {
		return nil, fmt.Errorf("Submit: %w", err)
	}

	if _, err := s.approvedAccount(ctx, req.AccountID, domain.ErrAccountNotApproved); err != nil {
		return nil, fmt.Errorf("Submit: %w", err)
	}

	now := s.now()
	txn := &domain.Transaction{
		ID:        uuid.New(),
		AccountID: req.AccountID,
		Type:      req.Type,
		Amount:    req.Amount,
		Status:    domain.TransactionStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.transactions.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("Submit: %w", err)
	}

	log.Info("transaction submitted",
		"transaction_id", txn.ID,
		"account_id", txn.AccountID,
		"type", txn.Type,
		"amount", txn.Amount.StringFixed(domain.MoneyScale),
	)
	return txn, nil
}

type TransferRequest struct {
	FromAccountID   uuid.UUID
	ToAccountNumber string
	Amount          decimal.Decimal
}

// TransferLegs are the two pending transactions a transfer creates. Each
// leg's TransferID names the other.
type TransferLegs struct {
	Withdrawal *domain.Transaction
	Deposit    *domain.Transaction
}

func validateTransfer(req TransferRequest, source, dest *domain.Account) error {
	if source.ID == dest.ID {
		return domain.ErrSelfTransfer
	}
	if source.Balance.LessThan(req.Amount) {
		return domain.ErrInsufficientFunds
	}
	return nil
}

// SubmitTransfer creates a withdrawal on the source and a deposit on the
// destination. The balance check here is advisory; approval re-checks it.
func (s *Service) SubmitTransfer(ctx context.Context, req TransferRequest) (*TransferLegs, error) {
	log := logging.FromContext(ctx)

	if !domain.ValidAccountNumber(req.ToAccountNumber) {
		return nil, fmt.Errorf("SubmitTransfer: %w", domain.ErrInvalidAccountNumber)
	}
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return nil, fmt.Errorf("SubmitTransfer: %w", err)
	}

	source, err := s.approvedAccount(ctx, req.FromAccountID, domain.ErrAccountNotApproved)
	if err != nil {
		return nil, fmt.Errorf("SubmitTransfer: source: %w", err)
	}
	dest, err := s.accounts.GetByNumber(ctx, req.ToAccountNumber)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, fmt.Errorf("SubmitTransfer: %w", domain.ErrDestinationNotApproved)
		}
		return nil, fmt.Errorf("SubmitTransfer: destination: %w", err)
	}
	if !dest.IsApproved() {
		return nil, fmt.Errorf("SubmitTransfer: %w", domain.ErrDestinationNotApproved)
	}

	if err := validateTransfer(req, source, dest); err != nil {
		return nil, fmt.Errorf("SubmitTransfer: %w", err)
	}

	legs := newTransferLegs(source.ID, dest.ID, req.Amount, s.now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("SubmitTransfer: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.transactions.CreateTx(ctx, tx, legs.Withdrawal); err != nil {
		return nil, fmt.Errorf("SubmitTransfer: withdrawal leg: %w", err)
	}
	if err := s.transactions.CreateTx(ctx, tx, legs.Deposit); err != nil {
		return nil, fmt.Errorf("SubmitTransfer: deposit leg: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("SubmitTransfer: commit: %w", err)
	}

	log.Info("transfer submitted",
		"withdrawal_id", legs.Withdrawal.ID,
		"deposit_id", legs.Deposit.ID,
		"from_account", source.ID,
		"to_account", dest.ID,
		"amount", req.Amount.StringFixed(domain.MoneyScale),
	)
	return legs, nil
}

func newTransferLegs(sourceID, destID uuid.UUID, amount decimal.Decimal, now time.Time) *TransferLegs {
	withdrawalID, depositID := uuid.New(), uuid.New()
	return &TransferLegs{
		Withdrawal: &domain.Transaction{
			ID:         withdrawalID,
			AccountID:  sourceID,
			Type:       domain.TransactionTypeWithdrawal,
			Amount:     amount,
			Status:     domain.TransactionStatusPending,
			TransferID: &depositID,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		Deposit: &domain.Transaction{
			ID:         depositID,
			AccountID:  destID,
			Type:       domain.TransactionTypeDeposit,
			Amount:     amount,
			Status:     domain.TransactionStatusPending,
			TransferID: &withdrawalID,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}
}

// approvedAccount loads id and fails with notApproved if it is missing or not
// approved.
func (s *Service) approvedAccount(ctx context.Context, id uuid.UUID, notApproved error) (*domain.Account, error) {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, notApproved
		}
		return nil, err
	}
	if !a.IsApproved() {
		return nil, notApproved
	}
	return a, nil
}
