// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/pinpoint/internal/platform/dberr"
	"github.com/taibuivan/pinpoint/internal/platform/postgres"
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

const selectAccount = `
	SELECT u.user_id, u.username, u.name, u.status, u.role_id, r.role_name, u.last_login_at, u.created_at
	FROM users.account u
	LEFT JOIN users.role r ON r.role_id = u.role_id`

/*
List retrieves one page of accounts.

Description: The total is computed with a window function in the same
statement, so page and count are consistent.
*/
func (repository *PostgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]Account, int, error) {
	const query = `
		SELECT u.user_id, u.username, u.name, u.status, u.role_id, r.role_name, u.last_login_at, u.created_at,
		       count(*) OVER () AS total
		FROM users.account u
		LEFT JOIN users.role r ON r.role_id = u.role_id
		WHERE cardinality($1::text[]) = 0 OR u.status = ANY($1)
		ORDER BY u.name, u.user_id
		LIMIT $2 OFFSET $3`

	statuses := filter.Statuses
	if statuses == nil {
		statuses = []string{}
	}

	rows, err := repository.db.Query(ctx, query, statuses, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list accounts")
	}
	defer rows.Close()

	accounts := []Account{}
	total := 0
	for rows.Next() {
		var account Account
		if err := rows.Scan(
			&account.ID,
			&account.Username,
			&account.Name,
			&account.Status,
			&account.RoleID,
			&account.RoleName,
			&account.LastLoginAt,
			&account.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan accounts")
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate accounts")
	}

	return accounts, total, nil
}

// FindByID retrieves one account with its role name.
func (repository *PostgresRepository) FindByID(ctx context.Context, id int64) (*Account, error) {
	account := &Account{}
	err := repository.db.QueryRow(ctx, selectAccount+` WHERE u.user_id = $1`, id).Scan(
		&account.ID,
		&account.Username,
		&account.Name,
		&account.Status,
		&account.RoleID,
		&account.RoleName,
		&account.LastLoginAt,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find account", dberr.WithNotFound("User"))
	}

	return account, nil
}

// Create inserts a new account. last_login_at always starts NULL.
func (repository *PostgresRepository) Create(ctx context.Context, account *Account) error {
	const query = `
		INSERT INTO users.account (username, name, status, role_id)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, created_at`

	err := repository.db.QueryRow(ctx, query,
		account.Username,
		account.Name,
		account.Status,
		account.RoleID,
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "create account",
			dberr.WithConflict(msgUsernameTaken),
			dberr.WithInvalidReference(msgUnknownRole),
		)
	}

	return nil
}

// Update writes the administrable columns. last_login_at is not among them.
func (repository *PostgresRepository) Update(ctx context.Context, account *Account) error {
	const query = `
		UPDATE users.account
		SET username = $2, name = $3, status = $4, role_id = $5, updated_at = now()
		WHERE user_id = $1`

	tag, err := repository.db.Exec(ctx, query,
		account.ID,
		account.Username,
		account.Name,
		account.Status,
		account.RoleID,
	)
	if err != nil {
		return dberr.Wrap(err, "update account",
			dberr.WithConflict(msgUsernameTaken),
			dberr.WithInvalidReference(msgUnknownRole),
		)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "update account", dberr.WithNotFound("User"))
	}

	return nil
}

// RevokeSessions deletes all of a user's sessions.
func (repository *PostgresRepository) RevokeSessions(ctx context.Context, userID int64) (int64, error) {
	const query = `DELETE FROM users.session WHERE user_id = $1`

	tag, err := repository.db.Exec(ctx, query, userID)
	if err != nil {
		return 0, dberr.Wrap(err, "revoke account sessions")
	}

	return tag.RowsAffected(), nil
}
