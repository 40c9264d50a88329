package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/josh-kwaku/bankdesk/internal/domain"
	"github.com/josh-kwaku/bankdesk/internal/logging"
)

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Credentials is either CustomerLogin or ManagerLogin.
type Credentials interface {
	credentials()
}

type CustomerLogin struct {
	Email    string
	Password string
}

type ManagerLogin struct {
	Name     string
	BankName string
	Password string
}

func (CustomerLogin) credentials() {}
func (ManagerLogin) credentials()  {}

type LoginResult struct {
	User *domain.User
	// Bank is set for manager logins only.
	Bank *domain.Bank
}

type UserService struct {
	users      userRepository
	banks      bankRepository
	bcryptCost int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewUserService(users userRepository, banks bankRepository, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{users: users, banks: banks, bcryptCost: bcryptCost}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	log := logging.FromContext(ctx)

	email := NormalizeEmail(in.Email)
	phone := strings.TrimSpace(in.Phone)

	if err := s.ensureUnused(ctx, email, phone); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	hash, err := hashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		CreatedAt:    time.Now().UTC(),
	}

	// A concurrent signup can still win the race; the unique constraints
	// surface that as the same conflicts.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	log.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *UserService) ensureUnused(ctx context.Context, email, phone string) error {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("check email: %w", err)
	}

	if _, err := s.users.GetByPhone(ctx, phone); err == nil {
		return domain.ErrPhoneExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("check phone: %w", err)
	}
	return nil
}

func (s *UserService) Login(ctx context.Context, c Credentials) (*LoginResult, error) {
	switch c := c.(type) {
	case CustomerLogin:
		u, err := s.VerifyCustomer(ctx, c.Email, c.Password)
		if err != nil {
			return nil, fmt.Errorf("Login: %w", err)
		}
		return &LoginResult{User: u}, nil
	case ManagerLogin:
		u, b, err := s.VerifyManager(ctx, c.Name, c.BankName, c.Password)
		if err != nil {
			return nil, fmt.Errorf("Login: %w", err)
		}
		return &LoginResult{User: u, Bank: b}, nil
	default:
		return nil, fmt.Errorf("Login: %w", domain.ErrInvalidRequest)
	}
}

func (s *UserService) VerifyCustomer(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.burnCompare(password)
			return nil, fmt.Errorf("VerifyCustomer: %w", domain.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("VerifyCustomer: %w", err)
	}

	if u.Role != domain.RoleCustomer {
		return nil, fmt.Errorf("VerifyCustomer: %w", domain.ErrUseManagerLogin)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("VerifyCustomer: %w", domain.ErrInvalidCredentials)
	}
	return u, nil
}

// VerifyManager matches the manager by case-insensitive name and requires
// that they run bankName.
func (s *UserService) VerifyManager(ctx context.Context, name, bankName, password string) (*domain.User, *domain.Bank, error) {
	managers, err := s.users.ListManagersByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, nil, fmt.Errorf("VerifyManager: %w", err)
	}
	if len(managers) == 0 {
		s.burnCompare(password)
		return nil, nil, fmt.Errorf("VerifyManager: %w", domain.ErrInvalidCredentials)
	}

	bank, err := s.banks.GetByName(ctx, strings.TrimSpace(bankName))
	if err != nil {
		if errors.Is(err, domain.ErrBankNotFound) {
			return nil, nil, fmt.Errorf("VerifyManager: %w", domain.ErrNotBankManager)
		}
		return nil, nil, fmt.Errorf("VerifyManager: %w", err)
	}

	var manager *domain.User
	for i := range managers {
		if bank.ManagedBy(managers[i].ID) {
			manager = &managers[i]
			break
		}
	}
	if manager == nil {
		return nil, nil, fmt.Errorf("VerifyManager: %w", domain.ErrNotBankManager)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(manager.PasswordHash), []byte(password)); err != nil {
		return nil, nil, fmt.Errorf("VerifyManager: %w", domain.ErrInvalidCredentials)
	}
	return manager, bank, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return u, nil
}

// burnCompare spends one bcrypt comparison so unknown identities take as long
// to reject as wrong passwords.
func (s *UserService) burnCompare(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("bankdesk-unknown-identity"), s.bcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}
