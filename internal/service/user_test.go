package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/josh-kwaku/bankdesk/internal/domain"
)

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegister(t *testing.T) {
	existing := &domain.User{ID: uuid.New(), Email: "a@x.com", Phone: "111", Role: domain.RoleCustomer}

	tests := []struct {
		name      string
		in        RegisterInput
		createErr error
		wantErr   error
	}{
		{"new user", RegisterInput{Name: "Bob", Email: "b@x.com", Phone: "222", Password: "pw"}, nil, nil},
		{"duplicate email", RegisterInput{Name: "Alice", Email: "a@x.com", Phone: "333", Password: "pw"}, nil, domain.ErrEmailExists},
		{"duplicate email different case", RegisterInput{Name: "Alice", Email: " A@X.com ", Phone: "333", Password: "pw"}, nil, domain.ErrEmailExists},
		{"duplicate phone", RegisterInput{Name: "Alice", Email: "c@x.com", Phone: "111", Password: "pw"}, nil, domain.ErrPhoneExists},
		{"password past bcrypt limit", RegisterInput{Name: "Eve", Email: "e@x.com", Phone: "555", Password: strings.Repeat("p", 73)}, nil, domain.ErrPasswordTooLong},
		{"password at bcrypt limit", RegisterInput{Name: "Eve", Email: "e@x.com", Phone: "555", Password: strings.Repeat("p", 72)}, nil, nil},
		{"lost race on insert", RegisterInput{Name: "Dan", Email: "d@x.com", Phone: "444", Password: "pw"}, domain.ErrEmailExists, domain.ErrEmailExists},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			users := newFakeUserRepo(existing)
			users.createErr = tc.createErr
			svc := NewUserService(users, &fakeBankRepo{}, bcrypt.MinCost)

			u, err := svc.Register(context.Background(), tc.in)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.RoleCustomer, u.Role)
			assert.NotEqual(t, tc.in.Password, u.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(tc.in.Password)))
		})
	}
}

func TestLogin(t *testing.T) {
	customer := &domain.User{ID: uuid.New(), Name: "Alice", Email: "a@x.com", Phone: "1", Role: domain.RoleCustomer, PasswordHash: hashed(t, "pw")}
	manager := &domain.User{ID: uuid.New(), Name: "Ankit", Email: "ankit@sbi.in", Phone: "2", Role: domain.RoleManager, PasswordHash: hashed(t, "sbi123")}
	other := &domain.User{ID: uuid.New(), Name: "Sunil", Email: "sunil@pnb.in", Phone: "3", Role: domain.RoleManager, PasswordHash: hashed(t, "pnb123")}
	banks := &fakeBankRepo{banks: []domain.Bank{
		{ID: uuid.New(), Name: "SBI", ManagerID: &manager.ID, CreatedAt: time.Now()},
		{ID: uuid.New(), Name: "PNB", ManagerID: &other.ID, CreatedAt: time.Now()},
	}}
	svc := NewUserService(newFakeUserRepo(customer, manager, other), banks, bcrypt.MinCost)

	tests := []struct {
		name     string
		creds    Credentials
		wantErr  error
		wantUser uuid.UUID
		wantBank bool
	}{
		{"customer ok", CustomerLogin{Email: "A@x.com", Password: "pw"}, nil, customer.ID, false},
		{"customer wrong password", CustomerLogin{Email: "a@x.com", Password: "nope"}, domain.ErrInvalidCredentials, uuid.Nil, false},
		{"customer unknown email", CustomerLogin{Email: "z@x.com", Password: "pw"}, domain.ErrInvalidCredentials, uuid.Nil, false},
		{"manager using customer login", CustomerLogin{Email: "ankit@sbi.in", Password: "sbi123"}, domain.ErrUseManagerLogin, uuid.Nil, false},
		{"manager ok case-insensitive", ManagerLogin{Name: "ankit", BankName: "sbi", Password: "sbi123"}, nil, manager.ID, true},
		{"manager wrong bank", ManagerLogin{Name: "Ankit", BankName: "PNB", Password: "sbi123"}, domain.ErrNotBankManager, uuid.Nil, false},
		{"manager unknown bank", ManagerLogin{Name: "Ankit", BankName: "HDFC", Password: "sbi123"}, domain.ErrNotBankManager, uuid.Nil, false},
		{"manager wrong password", ManagerLogin{Name: "Ankit", BankName: "SBI", Password: "x"}, domain.ErrInvalidCredentials, uuid.Nil, false},
		{"unknown manager", ManagerLogin{Name: "Nobody", BankName: "SBI", Password: "x"}, domain.ErrInvalidCredentials, uuid.Nil, false},
		{"customer name via manager login", ManagerLogin{Name: "Alice", BankName: "SBI", Password: "pw"}, domain.ErrInvalidCredentials, uuid.Nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.Login(context.Background(), tc.creds)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantUser, res.User.ID)
			assert.Equal(t, tc.wantBank, res.Bank != nil)
		})
	}
}

func TestLogin_UnknownVariant(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), &fakeBankRepo{}, bcrypt.MinCost)
	_, err := svc.Login(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}
