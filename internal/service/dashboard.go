package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bankdesk/internal/domain"
)

type DashboardService struct {
	accounts     accountQueries
	transactions transactionQueries
	users        userChecker
	banks        managerBankFinder
}

func NewDashboardService(accounts accountQueries, transactions transactionQueries, users userChecker, banks managerBankFinder) *DashboardService {
	return &DashboardService{accounts: accounts, transactions: transactions, users: users, banks: banks}
}

// CustomerDashboard lists the user's accounts. An unknown user has none.
func (s *DashboardService) CustomerDashboard(ctx context.Context, userID uuid.UUID) ([]domain.AccountView, error) {
	views, err := s.accounts.GetAccountsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("CustomerDashboard: %w", err)
	}
	return views, nil
}

func (s *DashboardService) CustomerTransactions(ctx context.Context, userID uuid.UUID) ([]domain.TransactionView, error) {
	views, err := s.transactions.ListApprovedForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("CustomerTransactions: %w", err)
	}
	return views, nil
}

func (s *DashboardService) ManagerDashboard(ctx context.Context, managerID uuid.UUID) (*domain.ManagerDashboard, error) {
	if _, err := requireManager(ctx, s.users, managerID); err != nil {
		return nil, fmt.Errorf("ManagerDashboard: %w", err)
	}

	bank, err := s.banks.FindManagerBank(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("ManagerDashboard: %w", err)
	}

	pending := domain.AccountStatusPending
	pendingAccounts, err := s.accounts.ListForBank(ctx, bank.ID, &pending)
	if err != nil {
		return nil, fmt.Errorf("ManagerDashboard: pending accounts: %w", err)
	}
	allAccounts, err := s.accounts.ListForBank(ctx, bank.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("ManagerDashboard: all accounts: %w", err)
	}
	pendingTxns, err := s.transactions.ListPendingForBank(ctx, bank.ID)
	if err != nil {
		return nil, fmt.Errorf("ManagerDashboard: pending transactions: %w", err)
	}
	allTxns, err := s.transactions.ListAllForBank(ctx, bank.ID)
	if err != nil {
		return nil, fmt.Errorf("ManagerDashboard: all transactions: %w", err)
	}

	return &domain.ManagerDashboard{
		Bank:                *bank,
		PendingAccounts:     pendingAccounts,
		PendingTransactions: pendingTxns,
		AllAccounts:         allAccounts,
		AllTransactions:     allTxns,
	}, nil
}
