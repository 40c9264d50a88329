package domain

import "github.com/google/uuid"

// AccountView is an account joined with its bank and owner.
type AccountView struct {
	Account
	BankName   string
	OwnerName  string
	OwnerEmail string
}

// TransactionView is a transaction joined through account, bank and owner.
type TransactionView struct {
	Transaction
	AccountNumber     string
	AccountHolderName string
	BankID            uuid.UUID
	BankName          string
	OwnerID           uuid.UUID
	OwnerName         string
}

type ManagerDashboard struct {
	Bank                Bank
	PendingAccounts     []AccountView
	PendingTransactions []TransactionView
	AllAccounts         []AccountView
	AllTransactions     []TransactionView
}
