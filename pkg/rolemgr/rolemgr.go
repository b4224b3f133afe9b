package rolemgr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/harvesthub/member-admin/pkg/account"
	"github.com/harvesthub/member-admin/pkg/group"
	"github.com/harvesthub/member-admin/pkg/notification"
)

// Operation names a bulk role operation applied to a selection of accounts
type Operation string

const (
	OpClearRoles          Operation = "clear_roles"
	OpPromoteToAdmin      Operation = "promote_to_admin"
	OpPromoteToCore       Operation = "promote_to_core"
	OpPromoteToPickleader Operation = "promote_to_pickleader"
	OpPromoteToVolunteer  Operation = "promote_to_volunteer"
	OpPromoteToOwner      Operation = "promote_to_owner"
	OpDeactivate          Operation = "deactivate"
)

var (
	ErrUnknownOperation = errors.New("unknown operation")
	ErrEmptySelection   = errors.New("no accounts selected")
)

// roleEffect describes what a promotion implies: the group to ensure and the
// flags it sets. Flags are only ever raised by promotions, never cleared.
type roleEffect struct {
	group     string
	staff     bool
	superuser bool
}

// Role semantics expressed as one declarative mapping instead of per-action
// flag twiddling. Promoting to volunteer or owner deliberately leaves
// is_staff untouched: those roles grant no console access.
var roleEffects = map[Operation]roleEffect{
	OpPromoteToAdmin:      {group: "admin", staff: true, superuser: true},
	OpPromoteToCore:       {group: "core", staff: true},
	OpPromoteToPickleader: {group: "pickleader", staff: true},
	OpPromoteToVolunteer:  {group: "volunteer"},
	OpPromoteToOwner:      {group: "owner"},
}

// ParseOperation validates an operation name received from the outside
func ParseOperation(name string) (Operation, error) {
	op := Operation(name)
	switch op {
	case OpClearRoles, OpDeactivate:
		return op, nil
	}
	if _, ok := roleEffects[op]; ok {
		return op, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownOperation, name)
}

// AccountStore is the slice of the account layer the role manager needs
type AccountStore interface {
	GetAccount(ctx context.Context, id uuid.UUID) (account.Account, error)
	FindAccounts(ctx context.Context) ([]account.Account, error)
	UpdateFlags(ctx context.Context, params account.UpdateFlagsParams) (account.Account, error)
}

// GroupStore is the slice of the group layer the role manager needs
type GroupStore interface {
	GetOrCreateGroup(ctx context.Context, name string) (group.Group, error)
	AddAccountToGroup(ctx context.Context, accountID, groupID uuid.UUID) error
	ClearAccountGroups(ctx context.Context, accountID uuid.UUID) error
	FindAccountGroups(ctx context.Context, accountID uuid.UUID) ([]group.Group, error)
	IsAccountInGroup(ctx context.Context, accountID uuid.UUID, name string) (bool, error)
}

// ItemResult reports the outcome of one account within a bulk operation
type ItemResult struct {
	AccountID uuid.UUID `json:"account_id"`
	Err       error     `json:"-"`
}

// Service applies named bulk role operations to selections of accounts
type Service struct {
	accounts AccountStore
	groups   GroupStore
	notifier notification.Notifier
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithNotifier enables role-change notifications. Notifier failures are
// logged and never surfaced as item failures.
func WithNotifier(n notification.Notifier) ServiceOption {
	return func(s *Service) {
		s.notifier = n
	}
}

// NewService creates a new role manager service
func NewService(accounts AccountStore, groups GroupStore, opts ...ServiceOption) *Service {
	s := &Service{
		accounts: accounts,
		groups:   groups,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply runs the named operation against each selected account. Accounts are
// processed sequentially and independently: a failure on one account is
// recorded in its ItemResult and does not stop the rest of the batch, and
// mutations already applied stay committed.
func (s *Service) Apply(ctx context.Context, op Operation, accountIDs []uuid.UUID) ([]ItemResult, error) {
	if _, err := ParseOperation(string(op)); err != nil {
		return nil, err
	}
	if len(accountIDs) == 0 {
		return nil, ErrEmptySelection
	}

	results := make([]ItemResult, 0, len(accountIDs))
	for _, id := range accountIDs {
		err := s.applyOne(ctx, op, id)
		if err != nil {
			slog.Error("Bulk operation failed for account", "operation", op, "accountId", id, "err", err)
		}
		results = append(results, ItemResult{AccountID: id, Err: err})
	}
	return results, nil
}

func (s *Service) applyOne(ctx context.Context, op Operation, id uuid.UUID) error {
	acct, err := s.accounts.GetAccount(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}

	switch op {
	case OpClearRoles:
		if err := s.groups.ClearAccountGroups(ctx, id); err != nil {
			return fmt.Errorf("failed to clear groups: %w", err)
		}
		_, err = s.accounts.UpdateFlags(ctx, account.UpdateFlagsParams{
			ID:          id,
			IsActive:    acct.IsActive,
			IsStaff:     false,
			IsSuperuser: false,
		})
		if err != nil {
			return fmt.Errorf("failed to clear flags: %w", err)
		}

	case OpDeactivate:
		// Protection rule: superusers are never deactivated by bulk action.
		if acct.IsSuperuser {
			slog.Info("Skipping deactivation of superuser", "accountId", id, "email", acct.Email)
			return nil
		}
		_, err = s.accounts.UpdateFlags(ctx, account.UpdateFlagsParams{
			ID:          id,
			IsActive:    false,
			IsStaff:     acct.IsStaff,
			IsSuperuser: acct.IsSuperuser,
		})
		if err != nil {
			return fmt.Errorf("failed to deactivate account: %w", err)
		}

	default:
		eff := roleEffects[op]
		g, err := s.groups.GetOrCreateGroup(ctx, eff.group)
		if err != nil {
			return fmt.Errorf("failed to get or create group %q: %w", eff.group, err)
		}
		if err := s.groups.AddAccountToGroup(ctx, id, g.ID); err != nil {
			return fmt.Errorf("failed to assign group %q: %w", eff.group, err)
		}
		if (eff.staff && !acct.IsStaff) || (eff.superuser && !acct.IsSuperuser) {
			_, err = s.accounts.UpdateFlags(ctx, account.UpdateFlagsParams{
				ID:          id,
				IsActive:    acct.IsActive,
				IsStaff:     acct.IsStaff || eff.staff,
				IsSuperuser: acct.IsSuperuser || eff.superuser,
			})
			if err != nil {
				return fmt.Errorf("failed to update flags: %w", err)
			}
		}
	}

	s.notify(ctx, op, acct)
	return nil
}

func (s *Service) notify(ctx context.Context, op Operation, acct account.Account) {
	if s.notifier == nil {
		return
	}
	noticeType := notification.NoticeRoleChanged
	if op == OpDeactivate {
		noticeType = notification.NoticeAccountDeactivated
	}
	err := s.notifier.Notify(ctx, noticeType, acct.Email, map[string]string{
		"Operation": string(op),
	})
	if err != nil {
		slog.Error("Failed to send role change notification", "accountId", acct.ID, "err", err)
	}
}
