package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/josh-kwaku/bankdesk/internal/domain"
	"github.com/josh-kwaku/bankdesk/internal/logging"
)

type BankService struct {
	banks      bankRepository
	users      userRepository
	cache      BankCache
	db         *sql.DB
	bcryptCost int
}

// NewBankService accepts a nil cache, in which case every List hits the
// database.
func NewBankService(banks bankRepository, users userRepository, cache BankCache, db *sql.DB, bcryptCost int) *BankService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &BankService{banks: banks, users: users, cache: cache, db: db, bcryptCost: bcryptCost}
}

func (s *BankService) List(ctx context.Context) ([]domain.Bank, error) {
	log := logging.FromContext(ctx)

	if s.cache != nil {
		banks, ok, err := s.cache.Get(ctx)
		if err != nil {
			log.Warn("bank cache read failed", "error", err)
		} else if ok {
			return banks, nil
		}
	}

	banks, err := s.banks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, banks); err != nil {
			log.Warn("bank cache write failed", "error", err)
		}
	}
	return banks, nil
}

func (s *BankService) FindManagerBank(ctx context.Context, managerID uuid.UUID) (*domain.Bank, error) {
	b, err := s.banks.GetByManagerID(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("FindManagerBank: %w", err)
	}
	return b, nil
}

type CreateBankInput struct {
	BankName        string
	ManagerName     string
	ManagerEmail    string
	ManagerPhone    string
	ManagerPassword string
}

// CreateWithManager provisions a manager account and the bank they run in one
// database transaction.
func (s *BankService) CreateWithManager(ctx context.Context, in CreateBankInput) (*domain.Bank, *domain.User, error) {
	log := logging.FromContext(ctx)

	bankName := strings.TrimSpace(in.BankName)
	managerName := strings.TrimSpace(in.ManagerName)
	if bankName == "" || managerName == "" || in.ManagerPassword == "" {
		return nil, nil, fmt.Errorf("CreateWithManager: %w", domain.ErrInvalidRequest)
	}

	hash, err := hashPassword(in.ManagerPassword, s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("CreateWithManager: %w", err)
	}

	now := time.Now().UTC()
	manager := &domain.User{
		ID:           uuid.New(),
		Name:         managerName,
		Email:        NormalizeEmail(in.ManagerEmail),
		Phone:        strings.TrimSpace(in.ManagerPhone),
		PasswordHash: hash,
		Role:         domain.RoleManager,
		CreatedAt:    now,
	}
	bank := &domain.Bank{
		ID:        uuid.New(),
		Name:      bankName,
		ManagerID: &manager.ID,
		CreatedAt: now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("CreateWithManager: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.users.CreateTx(ctx, tx, manager); err != nil {
		return nil, nil, fmt.Errorf("CreateWithManager: %w", err)
	}
	if err := s.banks.CreateTx(ctx, tx, bank); err != nil {
		return nil, nil, fmt.Errorf("CreateWithManager: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("CreateWithManager: commit: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Warn("bank cache invalidate failed", "error", err)
		}
	}

	log.Info("bank created", "bank_id", bank.ID, "manager_id", manager.ID)
	return bank, manager, nil
}
