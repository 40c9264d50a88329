package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/josh-kwaku/bankdesk/internal/domain"
	"github.com/josh-kwaku/bankdesk/internal/repository"
)

type fakeUserRepo struct {
	byID      map[uuid.UUID]*domain.User
	createErr error
	created   []*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: map[uuid.UUID]*domain.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Phone == phone {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) ListManagersByName(_ context.Context, name string) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.byID {
		if u.Role == domain.RoleManager && strings.EqualFold(u.Name, name) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, u)
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) CreateTx(ctx context.Context, _ *sql.Tx, u *domain.User) error {
	return f.Create(ctx, u)
}

type fakeBankRepo struct {
	banks   []domain.Bank
	listErr error
	lists   int
}

func (f *fakeBankRepo) List(context.Context) ([]domain.Bank, error) {
	f.lists++
	return f.banks, f.listErr
}

func (f *fakeBankRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Bank, error) {
	for i := range f.banks {
		if f.banks[i].ID == id {
			return &f.banks[i], nil
		}
	}
	return nil, domain.ErrBankNotFound
}

func (f *fakeBankRepo) GetByName(_ context.Context, name string) (*domain.Bank, error) {
	for i := range f.banks {
		if strings.EqualFold(f.banks[i].Name, name) {
			return &f.banks[i], nil
		}
	}
	return nil, domain.ErrBankNotFound
}

func (f *fakeBankRepo) GetByManagerID(_ context.Context, managerID uuid.UUID) (*domain.Bank, error) {
	for i := range f.banks {
		if f.banks[i].ManagedBy(managerID) {
			return &f.banks[i], nil
		}
	}
	return nil, domain.ErrBankNotFound
}

func (f *fakeBankRepo) CreateTx(_ context.Context, _ *sql.Tx, b *domain.Bank) error {
	f.banks = append(f.banks, *b)
	return nil
}

type fakeBankCache struct {
	banks       []domain.Bank
	hit         bool
	getErr      error
	sets        int
	invalidated int
}

func (f *fakeBankCache) Get(context.Context) ([]domain.Bank, bool, error) {
	return f.banks, f.hit, f.getErr
}

func (f *fakeBankCache) Set(_ context.Context, banks []domain.Bank) error {
	f.sets++
	f.banks, f.hit = banks, true
	return nil
}

func (f *fakeBankCache) Invalidate(context.Context) error {
	f.invalidated++
	f.banks, f.hit = nil, false
	return nil
}

type fakeAccountRepo struct {
	byID       map[uuid.UUID]*domain.Account
	createErrs []error
	creates    int
	views      []domain.AccountView
	filters    []repository.AccountFilter
}

func newFakeAccountRepo(accounts ...*domain.Account) *fakeAccountRepo {
	f := &fakeAccountRepo{byID: map[uuid.UUID]*domain.Account{}}
	for _, a := range accounts {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	if a, ok := f.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (f *fakeAccountRepo) Create(_ context.Context, a *domain.Account) error {
	f.creates++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeAccountRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.AccountStatus) error {
	a, ok := f.byID[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeAccountRepo) ListViews(_ context.Context, filter repository.AccountFilter) ([]domain.AccountView, error) {
	f.filters = append(f.filters, filter)
	return f.views, nil
}

var errBoom = errors.New("boom")
