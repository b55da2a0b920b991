// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package permission

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/pinpoint/internal/platform/postgres"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.Querier
}

// NewRepository creates a new PostgreSQL implementation of [Repository].
func NewRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// UserPermissions joins user -> role -> role_permission -> permission. The
// inner joins drop users without a role and dangling associations.
func (repository *PostgresRepository) UserPermissions(ctx context.Context, userID int64) ([]string, error) {
	const query = `
		SELECT DISTINCT lower(p.permission)
		FROM users.account u
		JOIN users.role_permission rp ON rp.role_id = u.role_id
		JOIN users.permission p ON p.permission_id = rp.permission_id
		WHERE u.user_id = $1 AND p.permission IS NOT NULL`

	rows, err := repository.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_permission_repo_user_permissions_failed: %w", err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("postgres_permission_repo_user_permissions_scan_failed: %w", err)
	}

	return names, nil
}

// List returns the catalog ordered by name.
func (repository *PostgresRepository) List(ctx context.Context) ([]Permission, error) {
	const query = `
		SELECT permission_id, permission
		FROM users.permission
		ORDER BY permission`

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_permission_repo_list_failed: %w", err)
	}

	permissions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Permission, error) {
		var item Permission
		err := row.Scan(&item.ID, &item.Permission)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres_permission_repo_list_scan_failed: %w", err)
	}

	return permissions, nil
}
