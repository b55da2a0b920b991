// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/pinpoint/internal/platform/dberr"
	"github.com/taibuivan/pinpoint/internal/platform/postgres"
	"github.com/taibuivan/pinpoint/internal/users/permission"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool postgres.DB
	db   postgres.Querier
	tx   pgx.Tx
}

// NewRepository creates a new PostgreSQL implementation of [Repository].
func NewRepository(pool postgres.DB) *PostgresRepository {
	return &PostgresRepository{pool: pool, db: pool}
}

// InTx runs fn on a dedicated connection. Nested calls join the open transaction.
func (repository *PostgresRepository) InTx(ctx context.Context, fn func(tx Repository) error) error {
	if repository.tx != nil {
		return fn(repository)
	}
	return postgres.WithinTx(ctx, repository.pool, func(tx pgx.Tx) error {
		return fn(&PostgresRepository{pool: repository.pool, db: tx, tx: tx})
	})
}

// List returns every role with its permissions, both ordered by name.
func (repository *PostgresRepository) List(ctx context.Context) ([]Role, error) {
	const rolesQuery = `
		SELECT role_id, role_name, default_route
		FROM users.role
		ORDER BY role_name`

	rows, err := repository.db.Query(ctx, rolesQuery)
	if err != nil {
		return nil, dberr.Wrap(err, "list roles")
	}
	roles, err := pgx.CollectRows(rows, scanRole)
	if err != nil {
		return nil, dberr.Wrap(err, "scan roles")
	}

	grants, err := repository.permissionsByRole(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range roles {
		roles[i].Permissions = orEmpty(grants[roles[i].ID])
	}

	return roles, nil
}

// FindByID returns one role with its permissions.
func (repository *PostgresRepository) FindByID(ctx context.Context, id int64) (*Role, error) {
	const query = `
		SELECT role_id, role_name, default_route
		FROM users.role
		WHERE role_id = $1`

	rows, err := repository.db.Query(ctx, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "find role")
	}
	role, err := pgx.CollectExactlyOneRow(rows, scanRole)
	if err != nil {
		return nil, dberr.Wrap(err, "find role", dberr.WithNotFound("Role"))
	}

	grants, err := repository.permissionsByRole(ctx, &id)
	if err != nil {
		return nil, err
	}
	role.Permissions = orEmpty(grants[id])

	return &role, nil
}

// Create inserts a role. A duplicate name is a 409.
func (repository *PostgresRepository) Create(ctx context.Context, role *Role) error {
	const query = `
		INSERT INTO users.role (role_name, default_route)
		VALUES ($1, $2)
		RETURNING role_id`

	err := repository.db.QueryRow(ctx, query, role.Name, role.DefaultRoute).Scan(&role.ID)
	if err != nil {
		return dberr.Wrap(err, "create role", dberr.WithConflict(msgNameTaken))
	}

	return nil
}

// Update writes name and default route.
func (repository *PostgresRepository) Update(ctx context.Context, role *Role) error {
	const query = `
		UPDATE users.role
		SET role_name = $2, default_route = $3
		WHERE role_id = $1`

	tag, err := repository.db.Exec(ctx, query, role.ID, role.Name, role.DefaultRoute)
	if err != nil {
		return dberr.Wrap(err, "update role", dberr.WithConflict(msgNameTaken))
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "update role", dberr.WithNotFound("Role"))
	}

	return nil
}

// Delete removes a role. Users holding it fall back to no role (ON DELETE SET NULL).
func (repository *PostgresRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users.role WHERE role_id = $1`

	tag, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete role")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "delete role", dberr.WithNotFound("Role"))
	}

	return nil
}

// ReplacePermissions deletes the current set and inserts the new one. Call it
// inside InTx; an unknown permission id is a 400.
func (repository *PostgresRepository) ReplacePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	const deleteQuery = `DELETE FROM users.role_permission WHERE role_id = $1`
	const insertQuery = `
		INSERT INTO users.role_permission (role_id, permission_id)
		SELECT $1, unnest($2::bigint[])`

	if _, err := repository.db.Exec(ctx, deleteQuery, roleID); err != nil {
		return dberr.Wrap(err, "clear role permissions")
	}

	if len(permissionIDs) == 0 {
		return nil
	}

	if _, err := repository.db.Exec(ctx, insertQuery, roleID, permissionIDs); err != nil {
		return dberr.Wrap(err, "insert role permissions", dberr.WithInvalidReference(msgUnknownPermission))
	}

	return nil
}

// permissionsByRole loads grants for one role, or for all roles when roleID is nil.
func (repository *PostgresRepository) permissionsByRole(ctx context.Context, roleID *int64) (map[int64][]permission.Permission, error) {
	const query = `
		SELECT rp.role_id, p.permission_id, p.permission
		FROM users.role_permission rp
		JOIN users.permission p ON p.permission_id = rp.permission_id
		WHERE $1::bigint IS NULL OR rp.role_id = $1
		ORDER BY p.permission`

	rows, err := repository.db.Query(ctx, query, roleID)
	if err != nil {
		return nil, dberr.Wrap(err, "list role permissions")
	}
	defer rows.Close()

	grants := make(map[int64][]permission.Permission)
	for rows.Next() {
		var owner int64
		var item permission.Permission
		if err := rows.Scan(&owner, &item.ID, &item.Permission); err != nil {
			return nil, dberr.Wrap(err, "scan role permissions")
		}
		grants[owner] = append(grants[owner], item)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate role permissions")
	}

	return grants, nil
}

func scanRole(row pgx.CollectableRow) (Role, error) {
	var role Role
	err := row.Scan(&role.ID, &role.Name, &role.DefaultRoute)
	return role, err
}

func orEmpty(items []permission.Permission) []permission.Permission {
	if items == nil {
		return []permission.Permission{}
	}
	return items
}
