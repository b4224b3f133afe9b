// Package account manages member accounts for the admin back-office.
//
// An account carries an email identity, a write-only password hash, the
// activation flag (is_active), the admin-console access flag (is_staff), and
// the unrestricted privilege flag (is_superuser), plus an optional person
// profile used for display and search.
//
// The package provides:
//   - Account creation with password confirmation and bcrypt hashing
//   - Flag updates used by the bulk role operations in pkg/rolemgr
//   - Repository pattern with PostgreSQL and in-memory backends
//
// Basic usage:
//
//	repo := account.NewPostgresAccountRepository(pool)
//	service := account.NewAccountService(repo)
//
//	acct, err := service.CreateAccount(ctx, account.CreateAccountParams{
//		Email:           "member@example.com",
//		Password:        "secret",
//		PasswordConfirm: "secret",
//	})
//
// Passwords are never stored or inspected in raw form: the service forwards
// the creation form's input to a PasswordHasher and persists only the result.
package account
