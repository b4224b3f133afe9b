package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already registered")
)

// AccountRepository defines the interface for account persistence.
// The role manager only mutates existing accounts through UpdateFlags;
// accounts are created and removed by administrators.
type AccountRepository interface {
	CreateAccount(ctx context.Context, params InsertAccountParams) (Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (Account, error)
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
	FindAccounts(ctx context.Context) ([]Account, error)
	UpdateFlags(ctx context.Context, params UpdateFlagsParams) (Account, error)
	SetPersonProfile(ctx context.Context, id uuid.UUID, person Person) (Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}
