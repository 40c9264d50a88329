package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountStatusPending  AccountStatus = "pending"
	AccountStatusApproved AccountStatus = "approved"
	AccountStatusRejected AccountStatus = "rejected"
)

const AccountNumberLength = 12

var accountNumberPattern = regexp.MustCompile(`^\d{12}$`)

func ValidAccountNumber(s string) bool {
	return accountNumberPattern.MatchString(s)
}

type Account struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	BankID            uuid.UUID
	AccountHolderName string
	Status            AccountStatus
	Balance           decimal.Decimal
	Version           int64
	AccountNumber     string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (a *Account) IsApproved() bool {
	return a.Status == AccountStatusApproved
}
