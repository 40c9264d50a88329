package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bankdesk/internal/domain"
	"github.com/josh-kwaku/bankdesk/internal/repository"
)

func (s *Service) ListPendingForBank(ctx context.Context, bankID uuid.UUID) ([]domain.TransactionView, error) {
	pending := domain.TransactionStatusPending
	views, err := s.transactions.ListViews(ctx, repository.TransactionFilter{BankID: &bankID, Status: &pending})
	if err != nil {
		return nil, fmt.Errorf("ListPendingForBank: %w", err)
	}
	return views, nil
}

func (s *Service) ListAllForBank(ctx context.Context, bankID uuid.UUID) ([]domain.TransactionView, error) {
	views, err := s.transactions.ListViews(ctx, repository.TransactionFilter{BankID: &bankID})
	if err != nil {
		return nil, fmt.Errorf("ListAllForBank: %w", err)
	}
	return views, nil
}

func (s *Service) ListApprovedForUser(ctx context.Context, userID uuid.UUID) ([]domain.TransactionView, error) {
	approved := domain.TransactionStatusApproved
	views, err := s.transactions.ListViews(ctx, repository.TransactionFilter{UserID: &userID, Status: &approved})
	if err != nil {
		return nil, fmt.Errorf("ListApprovedForUser: %w", err)
	}
	return views, nil
}
