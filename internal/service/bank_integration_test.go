package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/josh-kwaku/bankdesk/internal/domain"
	"github.com/josh-kwaku/bankdesk/internal/repository"
	"github.com/josh-kwaku/bankdesk/internal/service"
	"github.com/josh-kwaku/bankdesk/internal/testutil"
)

func TestIntegration_CreateWithManager(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	banks := repository.NewBankRepository(db)
	svc := service.NewBankService(banks, users, nil, db, bcrypt.MinCost)
	userSvc := service.NewUserService(users, banks, bcrypt.MinCost)

	bank, manager, err := svc.CreateWithManager(ctx, service.CreateBankInput{
		BankName:        "SBI",
		ManagerName:     "Ankit",
		ManagerEmail:    "Ankit@SBI.in",
		ManagerPhone:    "9000000001",
		ManagerPassword: "sbi123",
	})
	require.NoError(t, err)
	assert.Equal(t, "ankit@sbi.in", manager.Email)
	assert.True(t, bank.ManagedBy(manager.ID))

	res, err := userSvc.Login(ctx, service.ManagerLogin{Name: "ANKIT", BankName: "sbi", Password: "sbi123"})
	require.NoError(t, err)
	assert.Equal(t, manager.ID, res.User.ID)
	assert.Equal(t, bank.ID, res.Bank.ID)

	t.Run("duplicate bank rolls back the manager", func(t *testing.T) {
		_, _, err := svc.CreateWithManager(ctx, service.CreateBankInput{
			BankName:        "sbi",
			ManagerName:     "Other",
			ManagerEmail:    "other@sbi.in",
			ManagerPhone:    "9000000002",
			ManagerPassword: "x",
		})
		require.ErrorIs(t, err, domain.ErrBankExists)

		_, err = users.GetByEmail(ctx, "other@sbi.in")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("signup then customer login", func(t *testing.T) {
		u, err := userSvc.Register(ctx, service.RegisterInput{Name: "Alice", Email: "alice@x.com", Phone: "1", Password: "pw"})
		require.NoError(t, err)

		_, err = userSvc.Register(ctx, service.RegisterInput{Name: "Alice2", Email: "ALICE@x.com", Phone: "2", Password: "pw"})
		require.ErrorIs(t, err, domain.ErrEmailExists)

		res, err := userSvc.Login(ctx, service.CustomerLogin{Email: "alice@x.com", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, u.ID, res.User.ID)
		assert.Nil(t, res.Bank)
	})
}
