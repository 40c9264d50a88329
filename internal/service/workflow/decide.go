package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bankdesk/internal/domain"
	"github.com/josh-kwaku/bankdesk/internal/events"
	"github.com/josh-kwaku/bankdesk/internal/logging"
)

type DecideRequest struct {
	TransactionID uuid.UUID
	ManagerID     uuid.UUID
	Decision      domain.Decision
}

type DecisionResult struct {
	Transaction *domain.Transaction
	Account     *domain.Account
	BankID      uuid.UUID
}

type outcome struct {
	status         domain.TransactionStatus
	balance        decimal.Decimal
	balanceChanged bool
}

// applyDecision computes the effect of decision on a pending transaction
// without touching storage.
func applyDecision(acct *domain.Account, txn *domain.Transaction, decision domain.Decision) (outcome, error) {
	if !txn.IsPending() {
		return outcome{}, domain.ErrAlreadyDecided
	}

	switch decision {
	case domain.DecisionRejected:
		return outcome{status: domain.TransactionStatusRejected, balance: acct.Balance}, nil
	case domain.DecisionApproved:
	default:
		return outcome{}, domain.ErrInvalidDecision
	}

	var balance decimal.Decimal
	switch txn.Type {
	case domain.TransactionTypeDeposit:
		balance = acct.Balance.Add(txn.Amount)
		if balance.GreaterThan(domain.MaxAmount) {
			return outcome{}, domain.ErrBalanceLimit
		}
	case domain.TransactionTypeWithdrawal:
		if acct.Balance.LessThan(txn.Amount) {
			return outcome{}, domain.ErrInsufficientFunds
		}
		balance = acct.Balance.Sub(txn.Amount)
	default:
		return outcome{}, domain.ErrInvalidTransactionType
	}

	return outcome{status: domain.TransactionStatusApproved, balance: balance, balanceChanged: true}, nil
}

// Decide approves or rejects a pending transaction on behalf of the manager
// of the bank that owns its account.
//
// An approved withdrawal that exceeds the balance fails with
// ErrInsufficientFunds and stays pending, unless Options.AutoRejectOverdraft
// is set. In that case the transaction is rejected and the result is returned
// alongside ErrInsufficientFunds.
func (s *Service) Decide(ctx context.Context, req DecideRequest) (*DecisionResult, error) {
	log := logging.FromContext(ctx)

	if !req.Decision.IsValid() {
		return nil, fmt.Errorf("Decide: %w", domain.ErrInvalidDecision)
	}
	if err := s.requireManager(ctx, req.ManagerID); err != nil {
		return nil, fmt.Errorf("Decide: %w", err)
	}

	// Account and bank of a transaction never change, so ownership is checked
	// before taking any locks.
	txn, err := s.transactions.GetByID(ctx, req.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("Decide: %w", err)
	}
	acct, err := s.accounts.GetByID(ctx, txn.AccountID)
	if err != nil {
		return nil, fmt.Errorf("Decide: %w", err)
	}
	bank, err := s.banks.GetByID(ctx, acct.BankID)
	if err != nil {
		return nil, fmt.Errorf("Decide: %w", err)
	}
	if !bank.ManagedBy(req.ManagerID) {
		return nil, fmt.Errorf("Decide: %w", domain.ErrNotBankManager)
	}
	if !txn.IsPending() {
		return nil, fmt.Errorf("Decide: %w", domain.ErrAlreadyDecided)
	}

	res, decideErr := s.decideLocked(ctx, req)
	if res != nil {
		res.BankID = bank.ID
		s.publishDecision(ctx, res, req.ManagerID)
		log.Info("transaction decided",
			"transaction_id", res.Transaction.ID,
			"account_id", res.Account.ID,
			"manager_id", req.ManagerID,
			"status", res.Transaction.Status,
			"balance", res.Account.Balance.StringFixed(domain.MoneyScale),
		)
	}
	if decideErr != nil {
		return res, fmt.Errorf("Decide: %w", decideErr)
	}
	return res, nil
}

// decideLocked runs the read-check-write under row locks on the transaction
// and then its account. Lock order is fixed and only one account row is ever
// locked, so concurrent decisions serialize per account without deadlock.
func (s *Service) decideLocked(ctx context.Context, req DecideRequest) (*DecisionResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	txn, err := s.transactions.GetForUpdate(ctx, tx, req.TransactionID)
	if err != nil {
		return nil, err
	}
	acct, err := s.accounts.GetForUpdate(ctx, tx, txn.AccountID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out, err := applyDecision(acct, txn, req.Decision)
	if errors.Is(err, domain.ErrInsufficientFunds) && s.opts.AutoRejectOverdraft {
		if err := s.transactions.MarkDecided(ctx, tx, txn.ID, domain.TransactionStatusRejected, req.ManagerID, now); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit: %w", err)
		}
		markDecided(txn, domain.TransactionStatusRejected, req.ManagerID, now)
		return &DecisionResult{Transaction: txn, Account: acct}, domain.ErrInsufficientFunds
	}
	if err != nil {
		return nil, err
	}

	if out.balanceChanged {
		if err := s.accounts.UpdateBalance(ctx, tx, acct.ID, out.balance, acct.Version+1); err != nil {
			return nil, err
		}
	}
	if err := s.transactions.MarkDecided(ctx, tx, txn.ID, out.status, req.ManagerID, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	if out.balanceChanged {
		acct.Balance = out.balance
		acct.Version++
		acct.UpdatedAt = now
	}
	markDecided(txn, out.status, req.ManagerID, now)
	return &DecisionResult{Transaction: txn, Account: acct}, nil
}

func markDecided(txn *domain.Transaction, status domain.TransactionStatus, managerID uuid.UUID, at time.Time) {
	txn.Status = status
	txn.DecidedBy = &managerID
	txn.DecidedAt = &at
	txn.UpdatedAt = at
}

func (s *Service) requireManager(ctx context.Context, id uuid.UUID) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrForbidden
		}
		return err
	}
	if !u.IsManager() {
		return domain.ErrForbidden
	}
	return nil
}

func (s *Service) publishDecision(ctx context.Context, res *DecisionResult, managerID uuid.UUID) {
	e := events.TransactionDecided{
		TransactionID: res.Transaction.ID,
		AccountID:     res.Account.ID,
		BankID:        res.BankID,
		ManagerID:     managerID,
		Type:          string(res.Transaction.Type),
		Amount:        res.Transaction.Amount.StringFixed(domain.MoneyScale),
		Status:        string(res.Transaction.Status),
		BalanceAfter:  res.Account.Balance.StringFixed(domain.MoneyScale),
		TransferID:    res.Transaction.TransferID,
		DecidedAt:     res.Transaction.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		logging.FromContext(ctx).Warn("failed to publish transaction decision",
			"transaction_id", res.Transaction.ID, "error", err)
	}
}
