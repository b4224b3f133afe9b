package rolemgr

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/harvesthub/member-admin/pkg/account"
)

// Filter narrows the account listing. Nil fields are ignored.
type Filter struct {
	Search     string `json:"search,omitempty"` // Case-insensitive substring over email and person names
	Group      string `json:"group,omitempty"`  // Group name, empty means no group filter
	HasProfile *bool  `json:"has_profile,omitempty"`
	PickLeader *bool  `json:"pick_leader,omitempty"`
	Volunteer  *bool  `json:"volunteer,omitempty"`
	Staff      *bool  `json:"staff,omitempty"`
	Superuser  *bool  `json:"superuser,omitempty"`
	Active     *bool  `json:"active,omitempty"`
}

// AccountRow is one line of the tabular account listing: the account plus
// its derived display values.
type AccountRow struct {
	account.Account
	Groups  []string `json:"groups"`
	IsCore  bool     `json:"is_core"`
	IsAdmin bool     `json:"is_admin"`
}

// GroupSummary joins the row's group names for display. Each name appears
// exactly once, in the order returned by the store (order not guaranteed).
func (r AccountRow) GroupSummary() string {
	return strings.Join(r.Groups, " + ")
}

// IsAdmin reports whether an account is displayed as admin: superuser status
// is the authority, independent of "admin" group membership.
func IsAdmin(acct account.Account) bool {
	return acct.IsSuperuser
}

// matchesSearch checks the search term against the account's email and, when
// a person profile is attached, its first and family names.
func matchesSearch(acct account.Account, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(acct.Email), term) {
		return true
	}
	if acct.Person == nil {
		return false
	}
	return strings.Contains(strings.ToLower(acct.Person.FirstName), term) ||
		strings.Contains(strings.ToLower(acct.Person.FamilyName), term)
}

// IsCore reports whether an account belongs to the "core" group
func (s *Service) IsCore(ctx context.Context, accountID uuid.UUID) (bool, error) {
	return s.groups.IsAccountInGroup(ctx, accountID, "core")
}

// GroupSummary returns the display string of the account's group names
func (s *Service) GroupSummary(ctx context.Context, accountID uuid.UUID) (string, error) {
	groups, err := s.groups.FindAccountGroups(ctx, accountID)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return strings.Join(names, " + "), nil
}

// ListAccounts returns the filtered account listing with derived display
// values resolved per row.
func (s *Service) ListAccounts(ctx context.Context, f Filter) ([]AccountRow, error) {
	accounts, err := s.accounts.FindAccounts(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]AccountRow, 0, len(accounts))
	for _, acct := range accounts {
		if f.Search != "" && !matchesSearch(acct, f.Search) {
			continue
		}
		if f.HasProfile != nil && acct.HasProfile() != *f.HasProfile {
			continue
		}
		if f.Staff != nil && acct.IsStaff != *f.Staff {
			continue
		}
		if f.Superuser != nil && acct.IsSuperuser != *f.Superuser {
			continue
		}
		if f.Active != nil && acct.IsActive != *f.Active {
			continue
		}

		groups, err := s.groups.FindAccountGroups(ctx, acct.ID)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(groups))
		isCore := false
		inGroup := f.Group == ""
		isPickLeader := false
		isVolunteer := false
		for _, g := range groups {
			names = append(names, g.Name)
			switch g.Name {
			case "core":
				isCore = true
			case "pickleader":
				isPickLeader = true
			case "volunteer":
				isVolunteer = true
			}
			if g.Name == f.Group {
				inGroup = true
			}
		}

		if !inGroup {
			continue
		}
		if f.PickLeader != nil && isPickLeader != *f.PickLeader {
			continue
		}
		if f.Volunteer != nil && isVolunteer != *f.Volunteer {
			continue
		}

		rows = append(rows, AccountRow{
			Account: acct,
			Groups:  names,
			IsCore:  isCore,
			IsAdmin: IsAdmin(acct),
		})
	}
	return rows, nil
}
