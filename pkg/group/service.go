package group

import (
	"context"

	"github.com/google/uuid"
)

// GroupService provides group and membership management
type GroupService struct {
	repo GroupRepository
}

// NewGroupService creates a new group service
func NewGroupService(repo GroupRepository) *GroupService {
	return &GroupService{
		repo: repo,
	}
}

// GetOrCreateGroup looks up a group by name, creating it when absent
func (s *GroupService) GetOrCreateGroup(ctx context.Context, name string) (Group, error) {
	if name == "" {
		return Group{}, ErrEmptyName
	}
	return s.repo.GetOrCreateGroup(ctx, name)
}

// GetGroupByName retrieves a group by name
func (s *GroupService) GetGroupByName(ctx context.Context, name string) (Group, error) {
	return s.repo.GetGroupByName(ctx, name)
}

// FindGroups retrieves all groups
func (s *GroupService) FindGroups(ctx context.Context) ([]Group, error) {
	return s.repo.FindGroups(ctx)
}

// AddAccountToGroup adds an account to a group (idempotent)
func (s *GroupService) AddAccountToGroup(ctx context.Context, accountID, groupID uuid.UUID) error {
	return s.repo.AddAccountToGroup(ctx, MembershipParams{
		AccountID: accountID,
		GroupID:   groupID,
	})
}

// RemoveAccountFromGroup removes an account from a group
func (s *GroupService) RemoveAccountFromGroup(ctx context.Context, accountID, groupID uuid.UUID) error {
	return s.repo.RemoveAccountFromGroup(ctx, MembershipParams{
		AccountID: accountID,
		GroupID:   groupID,
	})
}

// ClearAccountGroups removes all group memberships of an account
func (s *GroupService) ClearAccountGroups(ctx context.Context, accountID uuid.UUID) error {
	return s.repo.ClearAccountGroups(ctx, accountID)
}

// FindAccountGroups retrieves the groups an account belongs to
func (s *GroupService) FindAccountGroups(ctx context.Context, accountID uuid.UUID) ([]Group, error) {
	return s.repo.FindAccountGroups(ctx, accountID)
}

// IsAccountInGroup checks whether an account belongs to the named group
func (s *GroupService) IsAccountInGroup(ctx context.Context, accountID uuid.UUID, name string) (bool, error) {
	return s.repo.IsAccountInGroup(ctx, accountID, name)
}
