package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

var (
	// ErrPasswordMismatch is returned when the password confirmation does not
	// match the password during account creation. The input is not persisted.
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// AccountService provides account management operations
type AccountService struct {
	repo   AccountRepository
	hasher PasswordHasher
}

// AccountServiceOption configures an AccountService
type AccountServiceOption func(*AccountService)

// WithPasswordHasher overrides the default bcrypt hasher
func WithPasswordHasher(hasher PasswordHasher) AccountServiceOption {
	return func(s *AccountService) {
		s.hasher = hasher
	}
}

// NewAccountService creates a new account service
func NewAccountService(repo AccountRepository, opts ...AccountServiceOption) *AccountService {
	s := &AccountService{
		repo:   repo,
		hasher: &BcryptHasher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAccount creates a new account. The password is optional: an account
// created without one cannot authenticate until a password is set through the
// authentication subsystem. When a password is provided, the confirmation
// must match or the input is rejected without persisting anything.
func (s *AccountService) CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error) {
	if params.Email == "" {
		return Account{}, fmt.Errorf("email is required")
	}

	if params.Password != params.PasswordConfirm {
		return Account{}, ErrPasswordMismatch
	}

	var passwordHash string
	if params.Password != "" {
		hash, err := s.hasher.Hash(params.Password)
		if err != nil {
			return Account{}, fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash = hash
	}

	account, err := s.repo.CreateAccount(ctx, InsertAccountParams{
		Email:        params.Email,
		PasswordHash: passwordHash,
		IsStaff:      params.IsStaff,
		IsSuperuser:  params.IsSuperuser,
		Person:       params.Person,
	})
	if err != nil {
		return Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	slog.Info("Created account", "accountId", account.ID, "email", account.Email)
	return account, nil
}

// GetAccount retrieves an account by ID
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (Account, error) {
	return s.repo.GetAccount(ctx, id)
}

// GetAccountByEmail retrieves an account by email
func (s *AccountService) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	return s.repo.GetAccountByEmail(ctx, email)
}

// FindAccounts retrieves all accounts
func (s *AccountService) FindAccounts(ctx context.Context) ([]Account, error) {
	return s.repo.FindAccounts(ctx)
}

// UpdateFlags updates an account's activation and privilege flags
func (s *AccountService) UpdateFlags(ctx context.Context, params UpdateFlagsParams) (Account, error) {
	return s.repo.UpdateFlags(ctx, params)
}

// SetPersonProfile attaches or replaces the person profile of an account
func (s *AccountService) SetPersonProfile(ctx context.Context, id uuid.UUID, person Person) (Account, error) {
	return s.repo.SetPersonProfile(ctx, id, person)
}

// VerifyPassword checks a raw password against the account's stored hash
func (s *AccountService) VerifyPassword(ctx context.Context, id uuid.UUID, password string) (bool, error) {
	account, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return false, err
	}
	if account.PasswordHash == "" {
		return false, nil // No usable password set
	}
	return s.hasher.Verify(password, account.PasswordHash)
}

// DeleteAccount deletes an account
func (s *AccountService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	// Check if account exists
	_, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return fmt.Errorf("account not found: %w", err)
	}

	return s.repo.DeleteAccount(ctx, id)
}
