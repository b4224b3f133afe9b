package account

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// InMemoryAccountRepository implements AccountRepository using in-memory storage
type InMemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]Account
}

// NewInMemoryAccountRepository creates a new in-memory account repository
func NewInMemoryAccountRepository() *InMemoryAccountRepository {
	return &InMemoryAccountRepository{
		accounts: make(map[uuid.UUID]Account),
	}
}

// CreateAccount creates a new account
func (r *InMemoryAccountRepository) CreateAccount(ctx context.Context, params InsertAccountParams) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Email == params.Email && a.DeletedAt == nil {
			return Account{}, ErrEmailTaken
		}
	}

	now := time.Now()
	account := Account{
		ID:             uuid.New(),
		CreatedAt:      now,
		LastModifiedAt: now,
		Email:          params.Email,
		PasswordHash:   params.PasswordHash,
		IsActive:       true,
		IsStaff:        params.IsStaff,
		IsSuperuser:    params.IsSuperuser,
		Person:         params.Person,
	}

	r.accounts[account.ID] = account
	return account, nil
}

// GetAccount retrieves an account by ID
func (r *InMemoryAccountRepository) GetAccount(ctx context.Context, id uuid.UUID) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok || account.DeletedAt != nil {
		return Account{}, ErrAccountNotFound
	}
	return account, nil
}

// GetAccountByEmail retrieves an account by email
func (r *InMemoryAccountRepository) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if account.Email == email && account.DeletedAt == nil {
			return account, nil
		}
	}
	return Account{}, ErrAccountNotFound
}

// FindAccounts retrieves all accounts ordered by email
func (r *InMemoryAccountRepository) FindAccounts(ctx context.Context) ([]Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Account
	for _, account := range r.accounts {
		if account.DeletedAt == nil {
			result = append(result, account)
		}
	}

	slices.SortFunc(result, func(a, b Account) int {
		switch {
		case a.Email < b.Email:
			return -1
		case a.Email > b.Email:
			return 1
		default:
			return 0
		}
	})
	return result, nil
}

// UpdateFlags updates an account's activation and privilege flags
func (r *InMemoryAccountRepository) UpdateFlags(ctx context.Context, params UpdateFlagsParams) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[params.ID]
	if !ok || account.DeletedAt != nil {
		return Account{}, ErrAccountNotFound
	}

	account.IsActive = params.IsActive
	account.IsStaff = params.IsStaff
	account.IsSuperuser = params.IsSuperuser
	account.LastModifiedAt = time.Now()
	r.accounts[params.ID] = account
	return account, nil
}

// SetPersonProfile attaches or replaces the person profile of an account
func (r *InMemoryAccountRepository) SetPersonProfile(ctx context.Context, id uuid.UUID, person Person) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok || account.DeletedAt != nil {
		return Account{}, ErrAccountNotFound
	}

	account.Person = &person
	account.LastModifiedAt = time.Now()
	r.accounts[id] = account
	return account, nil
}

// DeleteAccount deletes an account (soft delete)
func (r *InMemoryAccountRepository) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil // Idempotent delete
	}

	now := time.Now()
	account.DeletedAt = &now
	r.accounts[id] = account
	return nil
}

// SeedAccount adds an account directly (for testing/initialization)
func (r *InMemoryAccountRepository) SeedAccount(account Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[account.ID] = account
}
