package account

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a member account in the system
type Account struct {
	ID             uuid.UUID  `json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	LastModifiedAt time.Time  `json:"last_modified_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	IsActive       bool       `json:"is_active"`
	IsStaff        bool       `json:"is_staff"`
	IsSuperuser    bool       `json:"is_superuser"`
	Person         *Person    `json:"person,omitempty"`
}

// Person is the optional profile attached to an account
type Person struct {
	FirstName  string `json:"first_name"`
	FamilyName string `json:"family_name"`
}

// DisplayName returns the person's name for tabular listings
func (p Person) DisplayName() string {
	if p.FirstName == "" {
		return p.FamilyName
	}
	if p.FamilyName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.FamilyName
}

// HasProfile reports whether the account has a person profile with at least a name
func (a Account) HasProfile() bool {
	return a.Person != nil && (a.Person.FirstName != "" || a.Person.FamilyName != "")
}

// CreateAccountParams contains parameters for creating a new account.
// Password and PasswordConfirm carry the raw input from the creation form;
// they are hashed by the service and never persisted as-is.
type CreateAccountParams struct {
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	PasswordConfirm string  `json:"password_confirm"`
	IsStaff         bool    `json:"is_staff"`
	IsSuperuser     bool    `json:"is_superuser"`
	Person          *Person `json:"person,omitempty"`
}

// InsertAccountParams is what actually reaches the repository: raw passwords
// are replaced by the computed hash before storage.
type InsertAccountParams struct {
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	IsStaff      bool    `json:"is_staff"`
	IsSuperuser  bool    `json:"is_superuser"`
	Person       *Person `json:"person,omitempty"`
}

// UpdateFlagsParams contains parameters for updating an account's boolean flags
type UpdateFlagsParams struct {
	ID          uuid.UUID `json:"id"`
	IsActive    bool      `json:"is_active"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
}
