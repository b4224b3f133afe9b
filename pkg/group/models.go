package group

import (
	"time"

	"github.com/google/uuid"
)

// Group represents a named role label. An account may belong to zero or more
// groups; membership grants conventional, not independently enforced,
// privilege scope.
type Group struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
}

// MembershipParams identifies an account-group association
type MembershipParams struct {
	AccountID uuid.UUID `json:"account_id"`
	GroupID   uuid.UUID `json:"group_id"`
}
