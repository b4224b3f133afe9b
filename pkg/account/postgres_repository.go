package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harvesthub/member-admin/pkg/utils"
)

// PostgresAccountRepository implements AccountRepository using PostgreSQL
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAccountRepository creates a new PostgreSQL account repository
func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{
		pool: pool,
	}
}

const accountColumns = `
	id, created_at, last_modified_at, deleted_at, email, password_hash,
	is_active, is_staff, is_superuser, first_name, family_name
`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	var deletedAt sql.NullTime
	var passwordHash sql.NullString
	var firstName, familyName sql.NullString

	err := row.Scan(
		&a.ID,
		&a.CreatedAt,
		&a.LastModifiedAt,
		&deletedAt,
		&a.Email,
		&passwordHash,
		&a.IsActive,
		&a.IsStaff,
		&a.IsSuperuser,
		&firstName,
		&familyName,
	)
	if err != nil {
		return Account{}, err
	}

	if deletedAt.Valid {
		a.DeletedAt = &deletedAt.Time
	}
	a.PasswordHash = passwordHash.String
	if firstName.Valid || familyName.Valid {
		a.Person = &Person{
			FirstName:  firstName.String,
			FamilyName: familyName.String,
		}
	}
	return a, nil
}

// CreateAccount creates a new account
func (r *PostgresAccountRepository) CreateAccount(ctx context.Context, params InsertAccountParams) (Account, error) {
	query := `
		INSERT INTO accounts (
			email, password_hash, is_active, is_staff, is_superuser,
			first_name, family_name
		) VALUES (
			$1, $2, TRUE, $3, $4, $5, $6
		) RETURNING` + accountColumns

	var firstName, familyName sql.NullString
	if params.Person != nil {
		firstName = utils.ToNullString(params.Person.FirstName)
		familyName = utils.ToNullString(params.Person.FamilyName)
	}

	row := r.pool.QueryRow(ctx, query,
		params.Email,
		utils.ToNullString(params.PasswordHash),
		params.IsStaff,
		params.IsSuperuser,
		firstName,
		familyName,
	)

	a, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, ErrEmailTaken
		}
		return Account{}, fmt.Errorf("failed to create account: %w", err)
	}
	return a, nil
}

// GetAccount retrieves an account by ID
func (r *PostgresAccountRepository) GetAccount(ctx context.Context, id uuid.UUID) (Account, error) {
	query := `SELECT` + accountColumns + `FROM accounts WHERE id = $1 AND deleted_at IS NULL`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

// GetAccountByEmail retrieves an account by email
func (r *PostgresAccountRepository) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	query := `SELECT` + accountColumns + `FROM accounts WHERE email = $1 AND deleted_at IS NULL`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("failed to get account by email: %w", err)
	}
	return a, nil
}

// FindAccounts retrieves all accounts ordered by email
func (r *PostgresAccountRepository) FindAccounts(ctx context.Context) ([]Account, error) {
	query := `SELECT` + accountColumns + `FROM accounts WHERE deleted_at IS NULL ORDER BY email`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

// UpdateFlags updates an account's activation and privilege flags
func (r *PostgresAccountRepository) UpdateFlags(ctx context.Context, params UpdateFlagsParams) (Account, error) {
	query := `
		UPDATE accounts
		SET is_active = $2, is_staff = $3, is_superuser = $4, last_modified_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING` + accountColumns

	row := r.pool.QueryRow(ctx, query,
		params.ID,
		params.IsActive,
		params.IsStaff,
		params.IsSuperuser,
	)

	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("failed to update account flags: %w", err)
	}
	return a, nil
}

// SetPersonProfile attaches or replaces the person profile of an account
func (r *PostgresAccountRepository) SetPersonProfile(ctx context.Context, id uuid.UUID, person Person) (Account, error) {
	query := `
		UPDATE accounts
		SET first_name = $2, family_name = $3, last_modified_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING` + accountColumns

	row := r.pool.QueryRow(ctx, query,
		id,
		utils.ToNullString(person.FirstName),
		utils.ToNullString(person.FamilyName),
	)

	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("failed to set person profile: %w", err)
	}
	return a, nil
}

// DeleteAccount deletes an account (soft delete)
func (r *PostgresAccountRepository) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE accounts SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
