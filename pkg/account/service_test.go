package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		params  CreateAccountParams
		wantErr error
	}{
		{
			name: "valid account with password",
			params: CreateAccountParams{
				Email:           "test@example.com",
				Password:        "secret123",
				PasswordConfirm: "secret123",
			},
		},
		{
			name: "valid account without password",
			params: CreateAccountParams{
				Email: "nopassword@example.com",
			},
		},
		{
			name: "valid staff account with profile",
			params: CreateAccountParams{
				Email:           "staff@example.com",
				Password:        "secret123",
				PasswordConfirm: "secret123",
				IsStaff:         true,
				Person: &Person{
					FirstName:  "Jane",
					FamilyName: "Doe",
				},
			},
		},
		{
			name: "password mismatch",
			params: CreateAccountParams{
				Email:           "mismatch@example.com",
				Password:        "secret123",
				PasswordConfirm: "secret124",
			},
			wantErr: ErrPasswordMismatch,
		},
		{
			name: "missing email",
			params: CreateAccountParams{
				Password:        "secret123",
				PasswordConfirm: "secret123",
			},
			wantErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewInMemoryAccountRepository()
			service := NewAccountService(repo)

			created, err := service.CreateAccount(ctx, tt.params)
			if tt.wantErr != nil {
				assert.Error(t, err)
				if tt.wantErr != assert.AnError {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				// Nothing must be persisted on a rejected input
				accounts, findErr := repo.FindAccounts(ctx)
				require.NoError(t, findErr)
				assert.Empty(t, accounts)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.params.Email, created.Email)
			assert.True(t, created.IsActive)
			assert.Equal(t, tt.params.IsStaff, created.IsStaff)
			assert.NotEqual(t, tt.params.Password, created.PasswordHash)
			if tt.params.Person != nil {
				require.NotNil(t, created.Person)
				assert.Equal(t, tt.params.Person.FirstName, created.Person.FirstName)
			}
		})
	}
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryAccountRepository()
	service := NewAccountService(repo)

	_, err := service.CreateAccount(ctx, CreateAccountParams{Email: "dup@example.com"})
	require.NoError(t, err)

	_, err = service.CreateAccount(ctx, CreateAccountParams{Email: "dup@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestVerifyPassword(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryAccountRepository()
	service := NewAccountService(repo)

	created, err := service.CreateAccount(ctx, CreateAccountParams{
		Email:           "verify@example.com",
		Password:        "secret123",
		PasswordConfirm: "secret123",
	})
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		ok, err := service.VerifyPassword(ctx, created.ID, "secret123")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password", func(t *testing.T) {
		ok, err := service.VerifyPassword(ctx, created.ID, "wrong")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("no usable password", func(t *testing.T) {
		noPwd, err := service.CreateAccount(ctx, CreateAccountParams{Email: "nopwd@example.com"})
		require.NoError(t, err)

		ok, err := service.VerifyPassword(ctx, noPwd.ID, "")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryAccountRepository()
	service := NewAccountService(repo)

	created, err := service.CreateAccount(ctx, CreateAccountParams{Email: "delete@example.com"})
	require.NoError(t, err)

	err = service.DeleteAccount(ctx, created.ID)
	require.NoError(t, err)

	_, err = service.GetAccount(ctx, created.ID)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestHasProfile(t *testing.T) {
	assert.False(t, Account{}.HasProfile())
	assert.False(t, Account{Person: &Person{}}.HasProfile())
	assert.True(t, Account{Person: &Person{FirstName: "Jane"}}.HasProfile())
	assert.True(t, Account{Person: &Person{FamilyName: "Doe"}}.HasProfile())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Jane Doe", Person{FirstName: "Jane", FamilyName: "Doe"}.DisplayName())
	assert.Equal(t, "Jane", Person{FirstName: "Jane"}.DisplayName())
	assert.Equal(t, "Doe", Person{FamilyName: "Doe"}.DisplayName())
}
