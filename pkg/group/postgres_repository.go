package group

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresGroupRepository implements GroupRepository using PostgreSQL
type PostgresGroupRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresGroupRepository creates a new PostgreSQL group repository
func NewPostgresGroupRepository(pool *pgxpool.Pool) *PostgresGroupRepository {
	return &PostgresGroupRepository{
		pool: pool,
	}
}

// GetOrCreateGroup looks up a group by name, creating it when absent.
// The unique constraint on the name plus ON CONFLICT DO NOTHING keeps the
// operation race-free under concurrent requests.
func (r *PostgresGroupRepository) GetOrCreateGroup(ctx context.Context, name string) (Group, error) {
	if name == "" {
		return Group{}, ErrEmptyName
	}

	insert := `INSERT INTO groups (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	if _, err := r.pool.Exec(ctx, insert, name); err != nil {
		return Group{}, fmt.Errorf("failed to create group: %w", err)
	}

	return r.GetGroupByName(ctx, name)
}

// GetGroupByName retrieves a group by name
func (r *PostgresGroupRepository) GetGroupByName(ctx context.Context, name string) (Group, error) {
	query := `SELECT id, created_at, name FROM groups WHERE name = $1`

	var g Group
	err := r.pool.QueryRow(ctx, query, name).Scan(&g.ID, &g.CreatedAt, &g.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Group{}, ErrGroupNotFound
		}
		return Group{}, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

// FindGroups retrieves all groups ordered by name
func (r *PostgresGroupRepository) FindGroups(ctx context.Context) ([]Group, error) {
	query := `SELECT id, created_at, name FROM groups ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find groups: %w", err)
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.CreatedAt, &g.Name); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// AddAccountToGroup creates an account-group association (idempotent)
func (r *PostgresGroupRepository) AddAccountToGroup(ctx context.Context, params MembershipParams) error {
	query := `
		INSERT INTO account_groups (account_id, group_id)
		VALUES ($1, $2)
		ON CONFLICT (account_id, group_id) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, query, params.AccountID, params.GroupID); err != nil {
		return fmt.Errorf("failed to add account to group: %w", err)
	}
	return nil
}

// RemoveAccountFromGroup deletes an account-group association
func (r *PostgresGroupRepository) RemoveAccountFromGroup(ctx context.Context, params MembershipParams) error {
	query := `DELETE FROM account_groups WHERE account_id = $1 AND group_id = $2`

	if _, err := r.pool.Exec(ctx, query, params.AccountID, params.GroupID); err != nil {
		return fmt.Errorf("failed to remove account from group: %w", err)
	}
	return nil
}

// ClearAccountGroups removes all group memberships of an account
func (r *PostgresGroupRepository) ClearAccountGroups(ctx context.Context, accountID uuid.UUID) error {
	query := `DELETE FROM account_groups WHERE account_id = $1`

	if _, err := r.pool.Exec(ctx, query, accountID); err != nil {
		return fmt.Errorf("failed to clear account groups: %w", err)
	}
	return nil
}

// FindAccountGroups retrieves the groups an account belongs to
func (r *PostgresGroupRepository) FindAccountGroups(ctx context.Context, accountID uuid.UUID) ([]Group, error) {
	query := `
		SELECT g.id, g.created_at, g.name
		FROM groups g
		JOIN account_groups ag ON ag.group_id = g.id
		WHERE ag.account_id = $1
	`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account groups: %w", err)
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.CreatedAt, &g.Name); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account groups: %w", err)
	}
	return groups, nil
}

// IsAccountInGroup checks whether an account belongs to the named group
func (r *PostgresGroupRepository) IsAccountInGroup(ctx context.Context, accountID uuid.UUID, name string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM account_groups ag
			JOIN groups g ON g.id = ag.group_id
			WHERE ag.account_id = $1 AND g.name = $2
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, accountID, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check group membership: %w", err)
	}
	return exists, nil
}
