package account

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDatabase(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	dbName := "member_db"
	dbUser := "member"
	dbPassword := "pwd"

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithInitScripts(filepath.Join("../../migrations", "member_db.sql")),
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	require.NoError(t, err)

	connString, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	poolConfig, err := pgxpool.ParseConfig(connString)
	require.NoError(t, err)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

func TestPostgresCreateAccount(t *testing.T) {
	ctx := context.Background()

	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := NewPostgresAccountRepository(pool)

	tests := []struct {
		name    string
		params  InsertAccountParams
		wantErr error
	}{
		{
			name: "plain account",
			params: InsertAccountParams{
				Email: "plain@example.com",
			},
		},
		{
			name: "staff account with profile",
			params: InsertAccountParams{
				Email:        "staff@example.com",
				PasswordHash: "$2a$10$fakehashforrepositorytest",
				IsStaff:      true,
				Person: &Person{
					FirstName:  "Jane",
					FamilyName: "Doe",
				},
			},
		},
		{
			name: "duplicate email",
			params: InsertAccountParams{
				Email: "plain@example.com",
			},
			wantErr: ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := repo.CreateAccount(ctx, tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, created.ID.String(), "00000000-0000-0000-0000-000000000000")
			assert.Equal(t, tt.params.Email, created.Email)
			assert.Equal(t, tt.params.PasswordHash, created.PasswordHash)
			assert.True(t, created.IsActive)
			assert.Equal(t, tt.params.IsStaff, created.IsStaff)
			if tt.params.Person != nil {
				require.NotNil(t, created.Person)
				assert.Equal(t, tt.params.Person.FirstName, created.Person.FirstName)
				assert.Equal(t, tt.params.Person.FamilyName, created.Person.FamilyName)
			} else {
				assert.Nil(t, created.Person)
			}
		})
	}
}

func TestPostgresGetAccount(t *testing.T) {
	ctx := context.Background()

	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := NewPostgresAccountRepository(pool)

	created, err := repo.CreateAccount(ctx, InsertAccountParams{Email: "get@example.com"})
	require.NoError(t, err)

	t.Run("by id", func(t *testing.T) {
		found, err := repo.GetAccount(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Email, found.Email)
	})

	t.Run("by email", func(t *testing.T) {
		found, err := repo.GetAccountByEmail(ctx, "get@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetAccountByEmail(ctx, "missing@example.com")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestPostgresUpdateFlags(t *testing.T) {
	ctx := context.Background()

	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := NewPostgresAccountRepository(pool)

	created, err := repo.CreateAccount(ctx, InsertAccountParams{Email: "flags@example.com"})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.False(t, created.IsStaff)

	updated, err := repo.UpdateFlags(ctx, UpdateFlagsParams{
		ID:          created.ID,
		IsActive:    true,
		IsStaff:     true,
		IsSuperuser: true,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsStaff)
	assert.True(t, updated.IsSuperuser)

	deactivated, err := repo.UpdateFlags(ctx, UpdateFlagsParams{
		ID:          created.ID,
		IsActive:    false,
		IsStaff:     true,
		IsSuperuser: true,
	})
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)
	assert.True(t, deactivated.IsStaff)
}

func TestPostgresFindAccounts(t *testing.T) {
	ctx := context.Background()

	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := NewPostgresAccountRepository(pool)

	for _, email := range []string{"b@example.com", "a@example.com", "c@example.com"} {
		_, err := repo.CreateAccount(ctx, InsertAccountParams{Email: email})
		require.NoError(t, err)
	}

	accounts, err := repo.FindAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "a@example.com", accounts[0].Email)
	assert.Equal(t, "b@example.com", accounts[1].Email)
	assert.Equal(t, "c@example.com", accounts[2].Email)
}

func TestPostgresDeleteAccount(t *testing.T) {
	ctx := context.Background()

	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := NewPostgresAccountRepository(pool)

	created, err := repo.CreateAccount(ctx, InsertAccountParams{Email: "delete@example.com"})
	require.NoError(t, err)

	err = repo.DeleteAccount(ctx, created.ID)
	require.NoError(t, err)

	_, err = repo.GetAccount(ctx, created.ID)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	// Soft delete keeps the row
	var count int
	err = pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE id = $1 AND deleted_at IS NOT NULL`, created.ID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPostgresSetPersonProfile(t *testing.T) {
	ctx := context.Background()

	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	repo := NewPostgresAccountRepository(pool)

	created, err := repo.CreateAccount(ctx, InsertAccountParams{Email: "profile@example.com"})
	require.NoError(t, err)
	assert.False(t, created.HasProfile())

	updated, err := repo.SetPersonProfile(ctx, created.ID, Person{
		FirstName:  "Jane",
		FamilyName: "Doe",
	})
	require.NoError(t, err)
	assert.True(t, updated.HasProfile())
	assert.Equal(t, "Jane Doe", updated.Person.DisplayName())
}
