package group

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// InMemoryGroupRepository implements GroupRepository using in-memory storage
type InMemoryGroupRepository struct {
	mu            sync.RWMutex
	groups        map[uuid.UUID]Group
	byName        map[string]uuid.UUID
	accountGroups map[uuid.UUID][]uuid.UUID // accountID -> []groupID
}

// NewInMemoryGroupRepository creates a new in-memory group repository
func NewInMemoryGroupRepository() *InMemoryGroupRepository {
	return &InMemoryGroupRepository{
		groups:        make(map[uuid.UUID]Group),
		byName:        make(map[string]uuid.UUID),
		accountGroups: make(map[uuid.UUID][]uuid.UUID),
	}
}

// GetOrCreateGroup looks up a group by name, creating it when absent.
// Lookup and creation happen under one lock, so concurrent calls with the
// same name never create a duplicate.
func (r *InMemoryGroupRepository) GetOrCreateGroup(ctx context.Context, name string) (Group, error) {
	if name == "" {
		return Group{}, ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byName[name]; ok {
		return r.groups[id], nil
	}

	group := Group{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Name:      name,
	}
	r.groups[group.ID] = group
	r.byName[name] = group.ID
	return group, nil
}

// GetGroupByName retrieves a group by name
func (r *InMemoryGroupRepository) GetGroupByName(ctx context.Context, name string) (Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[name]
	if !ok {
		return Group{}, ErrGroupNotFound
	}
	return r.groups[id], nil
}

// FindGroups retrieves all groups ordered by name
func (r *InMemoryGroupRepository) FindGroups(ctx context.Context) ([]Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	groups := make([]Group, 0, len(r.groups))
	for _, g := range r.groups {
		groups = append(groups, g)
	}

	slices.SortFunc(groups, func(a, b Group) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		default:
			return 0
		}
	})
	return groups, nil
}

// AddAccountToGroup creates an account-group association (idempotent)
func (r *InMemoryGroupRepository) AddAccountToGroup(ctx context.Context, params MembershipParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[params.GroupID]; !ok {
		return ErrGroupNotFound
	}

	memberships := r.accountGroups[params.AccountID]
	for _, gid := range memberships {
		if gid == params.GroupID {
			return nil // Already a member
		}
	}
	r.accountGroups[params.AccountID] = append(memberships, params.GroupID)
	return nil
}

// RemoveAccountFromGroup deletes an account-group association
func (r *InMemoryGroupRepository) RemoveAccountFromGroup(ctx context.Context, params MembershipParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	memberships := r.accountGroups[params.AccountID]
	for i, gid := range memberships {
		if gid == params.GroupID {
			r.accountGroups[params.AccountID] = append(memberships[:i], memberships[i+1:]...)
			return nil
		}
	}
	return nil // Removing a non-member is idempotent
}

// ClearAccountGroups removes all group memberships of an account
func (r *InMemoryGroupRepository) ClearAccountGroups(ctx context.Context, accountID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.accountGroups[accountID] = nil
	return nil
}

// FindAccountGroups retrieves the groups an account belongs to
func (r *InMemoryGroupRepository) FindAccountGroups(ctx context.Context, accountID uuid.UUID) ([]Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	memberships := r.accountGroups[accountID]
	groups := make([]Group, 0, len(memberships))
	for _, gid := range memberships {
		if g, ok := r.groups[gid]; ok {
			groups = append(groups, g)
		}
	}
	return groups, nil
}

// IsAccountInGroup checks whether an account belongs to the named group
func (r *InMemoryGroupRepository) IsAccountInGroup(ctx context.Context, accountID uuid.UUID, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[name]
	if !ok {
		return false, nil
	}
	for _, gid := range r.accountGroups[accountID] {
		if gid == id {
			return true, nil
		}
	}
	return false, nil
}

// SeedGroup adds a group directly (for testing/initialization)
func (r *InMemoryGroupRepository) SeedGroup(group Group) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[group.ID] = group
	r.byName[group.Name] = group.ID
}
