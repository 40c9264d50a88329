package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

func (t TransactionType) IsValid() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdrawal
}

type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusApproved TransactionStatus = "approved"
	TransactionStatusRejected TransactionStatus = "rejected"
)

// Decision is a manager's verdict on a pending account or transaction.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

func (d Decision) IsValid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// MoneyScale is the number of fractional digits an amount may carry.
const MoneyScale = 2

// MaxAmount is the largest value a NUMERIC(20,2) amount or balance column
// holds.
var MaxAmount = decimal.RequireFromString("999999999999999999.99")

// ValidateAmount rejects non-positive amounts, amounts finer than a cent and
// amounts the ledger columns cannot store.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || amount.GreaterThan(MaxAmount) {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(MoneyScale)) {
		return ErrInvalidAmount
	}
	return nil
}

type Transaction struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	Type       TransactionType
	Amount     decimal.Decimal
	Status     TransactionStatus
	TransferID *uuid.UUID
	DecidedBy  *uuid.UUID
	DecidedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (t *Transaction) IsPending() bool {
	return t.Status == TransactionStatusPending
}
