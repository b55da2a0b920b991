// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Session Data Access

// Repository defines the data access contract for accounts and sessions.
//
// # Transactions
//
// InTx hands fn a Repository bound to one dedicated connection. Everything fn
// does through it commits or rolls back together.
type Repository interface {

	/*
		InTx runs fn inside a single transaction.

		Returns:
		  - error: fn's error unchanged, or a begin/commit failure
	*/
	InTx(ctx context.Context, fn func(tx Repository) error) error

	/*
		FindUserForLogin returns the account and locks its row until the
		enclosing transaction ends.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound("User") or store failures
	*/
	FindUserForLogin(ctx context.Context, userID int64) (*User, error)

	/*
		MarkLoggedIn promotes the account to active and stamps last_login_at.
	*/
	MarkLoggedIn(ctx context.Context, userID int64, at time.Time) error

	/*
		CreateSession persists a new session row.
	*/
	CreateSession(ctx context.Context, session *Session) error

	/*
		ResolveSession joins session, account and role.

		Parameters:
		  - hash: string (hashed session token)
		  - notBefore: time.Time (sessions created earlier have expired)

		Returns:
		  - *User: nil when the session is unknown, expired, or its owner is gone
		  - error: Store failures only
	*/
	ResolveSession(ctx context.Context, hash string, notBefore time.Time) (*User, error)

	/*
		TouchSession refreshes last_seen_at. A missing row is not an error.
	*/
	TouchSession(ctx context.Context, hash string, at time.Time) error

	/*
		DeleteSession removes a session row. A missing row is not an error.
	*/
	DeleteSession(ctx context.Context, hash string) error

	/*
		DeleteExpiredSessions purges sessions created before notBefore.

		Returns:
		  - int64: Rows removed
	*/
	DeleteExpiredSessions(ctx context.Context, notBefore time.Time) (int64, error)

	/*
		ListLoginUsers returns pending and active accounts ordered by name.
	*/
	ListLoginUsers(ctx context.Context) ([]LoginUser, error)
}

// TouchThrottle decides whether a session's activity timestamp is due for a
// write. It must be safe for concurrent use.
type TouchThrottle interface {
	Allow(ctx context.Context, hash string, interval time.Duration) (bool, error)
}
