package workflow_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/bankdesk/internal/domain"
	"github.com/josh-kwaku/bankdesk/internal/events"
	"github.com/josh-kwaku/bankdesk/internal/repository"
	"github.com/josh-kwaku/bankdesk/internal/service/workflow"
	"github.com/josh-kwaku/bankdesk/internal/testutil"
)

func setupWorkflow(t *testing.T, db *sql.DB, opts workflow.Options) (*workflow.Service, *events.Recorder) {
	t.Helper()
	rec := &events.Recorder{}
	svc := workflow.NewService(
		repository.NewAccountRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewUserRepository(db),
		repository.NewBankRepository(db),
		rec,
		db,
		opts,
	)
	return svc, rec
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertBalance(t *testing.T, db *sql.DB, accountID uuid.UUID, want string) {
	t.Helper()
	got := testutil.GetAccountBalance(t, db, accountID)
	assert.True(t, dec(want).Equal(got), "balance: want %s, got %s", want, got)
}

func submitAndApprove(t *testing.T, svc *workflow.Service, accountID, managerID uuid.UUID, typ domain.TransactionType, amount string) (*domain.Transaction, error) {
	t.Helper()
	ctx := context.Background()
	txn, err := svc.Submit(ctx, workflow.SubmitRequest{AccountID: accountID, Type: typ, Amount: dec(amount)})
	require.NoError(t, err)
	_, err = svc.Decide(ctx, workflow.DecideRequest{TransactionID: txn.ID, ManagerID: managerID, Decision: domain.DecisionApproved})
	return txn, err
}

func TestDeposit_ThenOverdraftStaysPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, rec := setupWorkflow(t, db, workflow.Options{})

	manager, bank := testutil.SeedManagerBank(t, db, "Ankit", "SBI")
	alice := testutil.SeedCustomer(t, db, "Alice")
	acct := testutil.SeedAccount(t, db, alice.ID, bank.ID, domain.AccountStatusApproved, "0")

	_, err := submitAndApprove(t, svc, acct.ID, manager.ID, domain.TransactionTypeDeposit, "100")
	require.NoError(t, err)
	assertBalance(t, db, acct.ID, "100")

	w, err := submitAndApprove(t, svc, acct.ID, manager.ID, domain.TransactionTypeWithdrawal, "150")
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assertBalance(t, db, acct.ID, "100")
	assert.Equal(t, domain.TransactionStatusPending, testutil.GetTransactionStatus(t, db, w.ID))

	require.Len(t, rec.Events(), 1, "only the successful decision is published")
	e, ok := rec.Events()[0].(events.TransactionDecided)
	require.True(t, ok)
	assert.Equal(t, "approved", e.Status)
	assert.Equal(t, "100.00", e.BalanceAfter)
	assert.Equal(t, bank.ID, e.BankID)
}

func TestOverdraft_AutoReject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, rec := setupWorkflow(t, db, workflow.Options{AutoRejectOverdraft: true})

	manager, bank := testutil.SeedManagerBank(t, db, "Atul", "UBI")
	bob := testutil.SeedCustomer(t, db, "Bob")
	acct := testutil.SeedAccount(t, db, bob.ID, bank.ID, domain.AccountStatusApproved, "20")

	w, err := submitAndApprove(t, svc, acct.ID, manager.ID, domain.TransactionTypeWithdrawal, "50")
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, domain.TransactionStatusRejected, testutil.GetTransactionStatus(t, db, w.ID))
	assertBalance(t, db, acct.ID, "20")

	require.Len(t, rec.Events(), 1)
	assert.Equal(t, "rejected", rec.Events()[0].(events.TransactionDecided).Status)
}

func TestSubmit_PendingAccountRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := setupWorkflow(t, db, workflow.Options{})

	_, bank := testutil.SeedManagerBank(t, db, "Sunil", "PNB")
	carol := testutil.SeedCustomer(t, db, "Carol")
	acct := testutil.SeedAccount(t, db, carol.ID, bank.ID, domain.AccountStatusPending, "0")

	_, err := svc.Submit(context.Background(), workflow.SubmitRequest{
		AccountID: acct.ID, Type: domain.TransactionTypeDeposit, Amount: dec("100"),
	})
	require.ErrorIs(t, err, domain.ErrAccountNotApproved)
}

func TestDecide_TwiceDoesNotDoubleApply(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := setupWorkflow(t, db, workflow.Options{})
	ctx := context.Background()

	manager, bank := testutil.SeedManagerBank(t, db, "Ankit", "SBI")
	dave := testutil.SeedCustomer(t, db, "Dave")
	acct := testutil.SeedAccount(t, db, dave.ID, bank.ID, domain.AccountStatusApproved, "0")

	txn, err := submitAndApprove(t, svc, acct.ID, manager.ID, domain.TransactionTypeDeposit, "75.25")
	require.NoError(t, err)

	for _, d := range []domain.Decision{domain.DecisionApproved, domain.DecisionRejected} {
		_, err := svc.Decide(ctx, workflow.DecideRequest{TransactionID: txn.ID, ManagerID: manager.ID, Decision: d})
		require.ErrorIs(t, err, domain.ErrAlreadyDecided)
	}
	assertBalance(t, db, acct.ID, "75.25")
	assert.Equal(t, domain.TransactionStatusApproved, testutil.GetTransactionStatus(t, db, txn.ID))
}

func TestDecide_ConcurrentApprovalsOfSameTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := setupWorkflow(t, db, workflow.Options{})
	ctx := context.Background()

	manager, bank := testutil.SeedManagerBank(t, db, "Ankit", "SBI")
	erin := testutil.SeedCustomer(t, db, "Erin")
	acct := testutil.SeedAccount(t, db, erin.ID, bank.ID, domain.AccountStatusApproved, "0")

	txn, err := svc.Submit(ctx, workflow.SubmitRequest{AccountID: acct.ID, Type: domain.TransactionTypeDeposit, Amount: dec("10")})
	require.NoError(t, err)

	const n = 5
	var wg sync.WaitGroup
	results := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Decide(ctx, workflow.DecideRequest{TransactionID: txn.ID, ManagerID: manager.ID, Decision: domain.DecisionApproved})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, domain.ErrAlreadyDecided)
		}
	}
	assert.Equal(t, 1, successes)
	assertBalance(t, db, acct.ID, "10")
}

func TestDecide_ConcurrentWithdrawalsOverdraft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := setupWorkflow(t, db, workflow.Options{})
	ctx := context.Background()

	manager, bank := testutil.SeedManagerBank(t, db, "Ankit", "SBI")
	frank := testutil.SeedCustomer(t, db, "Frank")
	acct := testutil.SeedAccount(t, db, frank.ID, bank.ID, domain.AccountStatusApproved, "100")

	var ids []uuid.UUID
	for range 2 {
		txn, err := svc.Submit(ctx, workflow.SubmitRequest{AccountID: acct.ID, Type: domain.TransactionTypeWithdrawal, Amount: dec("70")})
		require.NoError(t, err)
		ids = append(ids, txn.ID)
	}

	var wg sync.WaitGroup
	results := make(chan error, len(ids))
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := svc.Decide(ctx, workflow.DecideRequest{TransactionID: id, ManagerID: manager.ID, Decision: domain.DecisionApproved})
			results <- err
		}(id)
	}
	wg.Wait()
	close(results)

	var successes, failures int
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
			failures++
		}
	}

	assert.Equal(t, 1, successes, "exactly one withdrawal should be approved")
	assert.Equal(t, 1, failures, "exactly one withdrawal should fail")
	assertBalance(t, db, acct.ID, "30")
}

func TestTransfer_LegsDecidedIndependently(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := setupWorkflow(t, db, workflow.Options{})
	ctx := context.Background()

	sbiManager, sbi := testutil.SeedManagerBank(t, db, "Ankit", "SBI")
	_, pnb := testutil.SeedManagerBank(t, db, "Sunil", "PNB")
	alice := testutil.SeedCustomer(t, db, "Alice")
	bob := testutil.SeedCustomer(t, db, "Bob")
	a := testutil.SeedAccount(t, db, alice.ID, sbi.ID, domain.AccountStatusApproved, "100")
	b := testutil.SeedAccount(t, db, bob.ID, pnb.ID, domain.AccountStatusApproved, "0")

	legs, err := svc.SubmitTransfer(ctx, workflow.TransferRequest{
		FromAccountID: a.ID, ToAccountNumber: b.AccountNumber, Amount: dec("50"),
	})
	require.NoError(t, err)
	require.NotNil(t, legs.Withdrawal.TransferID)
	assert.Equal(t, legs.Deposit.ID, *legs.Withdrawal.TransferID)

	_, err = svc.Decide(ctx, workflow.DecideRequest{TransactionID: legs.Deposit.ID, ManagerID: sbiManager.ID, Decision: domain.DecisionApproved})
	require.ErrorIs(t, err, domain.ErrNotBankManager, "the source bank's manager cannot decide the destination leg")

	_, err = svc.Decide(ctx, workflow.DecideRequest{TransactionID: legs.Withdrawal.ID, ManagerID: sbiManager.ID, Decision: domain.DecisionApproved})
	require.NoError(t, err)

	assertBalance(t, db, a.ID, "50")
	assertBalance(t, db, b.ID, "0")
	assert.Equal(t, domain.TransactionStatusPending, testutil.GetTransactionStatus(t, db, legs.Deposit.ID))

	stored, err := repository.NewTransactionRepository(db).GetByID(ctx, legs.Deposit.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.TransferID)
	assert.Equal(t, legs.Withdrawal.ID, *stored.TransferID)
}

func TestTransfer_InsufficientAtSubmission(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := setupWorkflow(t, db, workflow.Options{})

	_, bank := testutil.SeedManagerBank(t, db, "Ankit", "SBI")
	alice := testutil.SeedCustomer(t, db, "Alice")
	a := testutil.SeedAccount(t, db, alice.ID, bank.ID, domain.AccountStatusApproved, "10")
	b := testutil.SeedAccount(t, db, alice.ID, bank.ID, domain.AccountStatusApproved, "0")

	_, err := svc.SubmitTransfer(context.Background(), workflow.TransferRequest{
		FromAccountID: a.ID, ToAccountNumber: b.AccountNumber, Amount: dec("10.01"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&count))
	assert.Zero(t, count)
}

func TestBalanceEqualsApprovedNet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := setupWorkflow(t, db, workflow.Options{})
	ctx := context.Background()

	manager, bank := testutil.SeedManagerBank(t, db, "Ankit", "SBI")
	grace := testutil.SeedCustomer(t, db, "Grace")
	acct := testutil.SeedAccount(t, db, grace.ID, bank.ID, domain.AccountStatusApproved, "0")

	steps := []struct {
		typ      domain.TransactionType
		amount   string
		decision domain.Decision
	}{
		{domain.TransactionTypeDeposit, "200", domain.DecisionApproved},
		{domain.TransactionTypeWithdrawal, "30.10", domain.DecisionApproved},
		{domain.TransactionTypeDeposit, "999", domain.DecisionRejected},
		{domain.TransactionTypeWithdrawal, "500", domain.DecisionApproved},
		{domain.TransactionTypeDeposit, "0.45", domain.DecisionApproved},
		{domain.TransactionTypeWithdrawal, "20", domain.DecisionRejected},
	}
	for _, st := range steps {
		txn, err := svc.Submit(ctx, workflow.SubmitRequest{AccountID: acct.ID, Type: st.typ, Amount: dec(st.amount)})
		require.NoError(t, err)
		_, _ = svc.Decide(ctx, workflow.DecideRequest{TransactionID: txn.ID, ManagerID: manager.ID, Decision: st.decision})
	}
	// one submitted but never decided
	_, err := svc.Submit(ctx, workflow.SubmitRequest{AccountID: acct.ID, Type: domain.TransactionTypeDeposit, Amount: dec("5")})
	require.NoError(t, err)

	balance := testutil.GetAccountBalance(t, db, acct.ID)
	assert.True(t, testutil.ApprovedNet(t, db, acct.ID).Equal(balance))
	assertBalance(t, db, acct.ID, "170.35")
}

func TestQueries_ScopedToBank(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc, _ := setupWorkflow(t, db, workflow.Options{})
	ctx := context.Background()

	manager, sbi := testutil.SeedManagerBank(t, db, "Ankit", "SBI")
	_, pnb := testutil.SeedManagerBank(t, db, "Sunil", "PNB")
	alice := testutil.SeedCustomer(t, db, "Alice")
	a := testutil.SeedAccount(t, db, alice.ID, sbi.ID, domain.AccountStatusApproved, "0")
	b := testutil.SeedAccount(t, db, alice.ID, pnb.ID, domain.AccountStatusApproved, "0")

	approved, err := submitAndApprove(t, svc, a.ID, manager.ID, domain.TransactionTypeDeposit, "10")
	require.NoError(t, err)
	pendingA, err := svc.Submit(ctx, workflow.SubmitRequest{AccountID: a.ID, Type: domain.TransactionTypeDeposit, Amount: dec("1")})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, workflow.SubmitRequest{AccountID: b.ID, Type: domain.TransactionTypeDeposit, Amount: dec("2")})
	require.NoError(t, err)

	pending, err := svc.ListPendingForBank(ctx, sbi.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, pendingA.ID, pending[0].ID)
	assert.Equal(t, "SBI", pending[0].BankName)
	assert.Equal(t, "Alice", pending[0].OwnerName)

	all, err := svc.ListAllForBank(ctx, sbi.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	history, err := svc.ListApprovedForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, approved.ID, history[0].ID)
	assert.Equal(t, a.AccountNumber, history[0].AccountNumber)
}
