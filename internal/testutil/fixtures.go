package testutil

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/josh-kwaku/bankdesk/internal/domain"
)

const TestPassword = "password123"

var seq atomic.Int64

func next() int64 { return seq.Add(1) }

func hashPassword(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func seedUser(t *testing.T, db *sql.DB, name string, role domain.Role) *domain.User {
	t.Helper()

	n := next()
	u := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        fmt.Sprintf("user%d@test.com", n),
		Phone:        fmt.Sprintf("+1555%07d", n),
		PasswordHash: hashPassword(t),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO users (id, name, email, phone, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return u
}

// SeedCustomer inserts a customer with a unique email and phone. Its password
// is TestPassword.
func SeedCustomer(t *testing.T, db *sql.DB, name string) *domain.User {
	t.Helper()
	return seedUser(t, db, name, domain.RoleCustomer)
}

// SeedManagerBank inserts a manager and a bank they run.
func SeedManagerBank(t *testing.T, db *sql.DB, managerName, bankName string) (*domain.User, *domain.Bank) {
	t.Helper()

	manager := seedUser(t, db, managerName, domain.RoleManager)
	bank := &domain.Bank{
		ID:        uuid.New(),
		Name:      bankName,
		ManagerID: &manager.ID,
		CreatedAt: time.Now().UTC(),
	}
	_, err := db.Exec(
		`INSERT INTO banks (id, name, manager_id, created_at) VALUES ($1, $2, $3, $4)`,
		bank.ID, bank.Name, bank.ManagerID, bank.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed bank %s: %v", bankName, err)
	}
	return manager, bank
}

func SeedAccount(t *testing.T, db *sql.DB, userID, bankID uuid.UUID, status domain.AccountStatus, balance string) *domain.Account {
	t.Helper()

	now := time.Now().UTC()
	a := &domain.Account{
		ID:                uuid.New(),
		UserID:            userID,
		BankID:            bankID,
		AccountHolderName: "Holder",
		Status:            status,
		Balance:           decimal.RequireFromString(balance),
		Version:           1,
		AccountNumber:     fmt.Sprintf("%012d", 100_000_000_000+next()),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	_, err := db.Exec(
		`INSERT INTO accounts (id, user_id, bank_id, account_holder_name, status,
			balance, version, account_number, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.UserID, a.BankID, a.AccountHolderName, a.Status,
		a.Balance, a.Version, a.AccountNumber, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed account for %s: %v", userID, err)
	}
	return a
}

func GetAccountBalance(t *testing.T, db *sql.DB, accountID uuid.UUID) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get account balance %s: %v", accountID, err)
	}
	return balance
}

func GetTransactionStatus(t *testing.T, db *sql.DB, txnID uuid.UUID) domain.TransactionStatus {
	t.Helper()

	var status domain.TransactionStatus
	err := db.QueryRow(`SELECT status FROM transactions WHERE id = $1`, txnID).Scan(&status)
	if err != nil {
		t.Fatalf("get transaction status %s: %v", txnID, err)
	}
	return status
}

// ApprovedNet is sum(approved deposits) - sum(approved withdrawals) for an
// account, computed straight from the transactions table.
func ApprovedNet(t *testing.T, db *sql.DB, accountID uuid.UUID) decimal.Decimal {
	t.Helper()

	var net decimal.Decimal
	err := db.QueryRow(
		`SELECT COALESCE(SUM(CASE WHEN type = 'deposit' THEN amount ELSE -amount END), 0)
		 FROM transactions WHERE account_id = $1 AND status = 'approved'`, accountID,
	).Scan(&net)
	if err != nil {
		t.Fatalf("approved net %s: %v", accountID, err)
	}
	return net
}
