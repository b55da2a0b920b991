// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Storage for accounts and sessions on PostgreSQL.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types through dberr so SQL details never reach clients.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/pinpoint/internal/platform/dberr"
	"github.com/taibuivan/pinpoint/internal/platform/postgres"
)

// PostgresRepository implements [Repository] using pgx.
//
// The same type serves both the pool and a transaction: tx is nil on the
// pooled instance and set on the instance handed to [Repository.InTx] callbacks.
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

/*
FindUserForLogin retrieves an account and takes a row lock.

Description: FOR UPDATE OF the account row serializes concurrent logins of the
same user for the status promotion, while each still gets its own session.

Returns:
  - *User: Hydrated entity with role name and default route
  - error: apperr.NotFound("User") or database errors
*/
func (repository *PostgresRepository) FindUserForLogin(ctx context.Context, userID int64) (*User, error) {
	const query = `
		SELECT u.user_id, u.username, u.name, u.status, u.role_id, r.role_name, r.default_route, u.last_login_at
		FROM users.account u
		LEFT JOIN users.role r ON r.role_id = u.role_id
		WHERE u.user_id = $1
		FOR UPDATE OF u`

	user, err := scanUser(repository.db.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, dberr.Wrap(err, "find user for login", dberr.WithNotFound("User"))
	}

	return user, nil
}

// MarkLoggedIn promotes pending accounts and stamps the login time.
func (repository *PostgresRepository) MarkLoggedIn(ctx context.Context, userID int64, at time.Time) error {
	const query = `
		UPDATE users.account
		SET status = 'active', last_login_at = $2, updated_at = $2
		WHERE user_id = $1`

	tag, err := repository.db.Exec(ctx, query, userID, at)
	if err != nil {
		return fmt.Errorf("postgres_auth_repo_mark_logged_in_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "mark logged in", dberr.WithNotFound("User"))
	}

	return nil
}

// CreateSession inserts a new session row keyed by the token hash.
func (repository *PostgresRepository) CreateSession(ctx context.Context, session *Session) error {
	const query = `
		INSERT INTO users.session (session_hash, user_id, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4)`

	_, err := repository.db.Exec(ctx, query,
		session.Hash,
		session.UserID,
		session.CreatedAt,
		session.LastSeenAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_auth_repo_create_session_failed: %w", err)
	}

	return nil
}

/*
ResolveSession maps a session hash to its owner.

Description: Inner join on the account so a session of a deleted user resolves
to nothing; inactive owners are treated the same way.

Returns:
  - *User: nil if unresolvable
  - error: Database errors only
*/
func (repository *PostgresRepository) ResolveSession(ctx context.Context, hash string, notBefore time.Time) (*User, error) {
	const query = `
		SELECT u.user_id, u.username, u.name, u.status, u.role_id, r.role_name, r.default_route, u.last_login_at
		FROM users.session s
		JOIN users.account u ON u.user_id = s.user_id
		LEFT JOIN users.role r ON r.role_id = u.role_id
		WHERE s.session_hash = $1
		  AND s.created_at > $2
		  AND u.status <> 'inactive'`

	user, err := scanUser(repository.db.QueryRow(ctx, query, hash, notBefore))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres_auth_repo_resolve_session_failed: %w", err)
	}

	return user, nil
}

// TouchSession refreshes last_seen_at.
func (repository *PostgresRepository) TouchSession(ctx context.Context, hash string, at time.Time) error {
	const query = `UPDATE users.session SET last_seen_at = $2 WHERE session_hash = $1`

	if _, err := repository.db.Exec(ctx, query, hash, at); err != nil {
		return fmt.Errorf("postgres_auth_repo_touch_session_failed: %w", err)
	}

	return nil
}

// DeleteSession removes one session row.
func (repository *PostgresRepository) DeleteSession(ctx context.Context, hash string) error {
	const query = `DELETE FROM users.session WHERE session_hash = $1`

	if _, err := repository.db.Exec(ctx, query, hash); err != nil {
		return fmt.Errorf("postgres_auth_repo_delete_session_failed: %w", err)
	}

	return nil
}

// DeleteExpiredSessions purges sessions past their absolute lifetime.
func (repository *PostgresRepository) DeleteExpiredSessions(ctx context.Context, notBefore time.Time) (int64, error) {
	const query = `DELETE FROM users.session WHERE created_at <= $1`

	tag, err := repository.db.Exec(ctx, query, notBefore)
	if err != nil {
		return 0, fmt.Errorf("postgres_auth_repo_delete_expired_failed: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ListLoginUsers returns accounts eligible to log in, ordered by name.
func (repository *PostgresRepository) ListLoginUsers(ctx context.Context) ([]LoginUser, error) {
	const query = `
		SELECT user_id, name, username
		FROM users.account
		WHERE status IN ('pending', 'active')
		ORDER BY name, user_id`

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_auth_repo_list_login_users_failed: %w", err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (LoginUser, error) {
		var user LoginUser
		err := row.Scan(&user.ID, &user.Name, &user.Username)
		return user, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres_auth_repo_list_login_users_scan_failed: %w", err)
	}

	return users, nil
}

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.Status,
		&user.RoleID,
		&user.RoleName,
		&user.DefaultRoute,
		&user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
