package group

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrGroupNotFound = errors.New("group not found")
	ErrEmptyName     = errors.New("group name cannot be empty")
)

// GroupRepository defines the interface for group and membership persistence.
//
// GetOrCreateGroup must be atomic with respect to the group name: two
// concurrent calls with the same name return the same group and never create
// a duplicate.
type GroupRepository interface {
	GetOrCreateGroup(ctx context.Context, name string) (Group, error)
	GetGroupByName(ctx context.Context, name string) (Group, error)
	FindGroups(ctx context.Context) ([]Group, error)

	// Membership operations
	AddAccountToGroup(ctx context.Context, params MembershipParams) error
	RemoveAccountFromGroup(ctx context.Context, params MembershipParams) error
	ClearAccountGroups(ctx context.Context, accountID uuid.UUID) error
	FindAccountGroups(ctx context.Context, accountID uuid.UUID) ([]Group, error)
	IsAccountInGroup(ctx context.Context, accountID uuid.UUID, name string) (bool, error)
}
