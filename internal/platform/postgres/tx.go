// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// rollbackTimeout bounds the ROLLBACK issued on error paths.
const rollbackTimeout = 5 * time.Second

// Querier is the statement surface shared by [pgxpool.Pool] and [pgx.Tx].
//
// Repositories are written against Querier so the same code runs either on any
// pooled connection or on the dedicated connection of a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner starts a transaction on a dedicated connection.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// DB is a pooled handle: single statements on any connection plus
// transactions on a dedicated one. [*pgxpool.Pool] satisfies it.
type DB interface {
	Querier
	TxBeginner
}

// WithinTx runs fn inside a single transaction.
//
// # Guarantees
//
//   - fn returning nil commits; any error (or panic) rolls back.
//   - The dedicated connection is released on every exit path. ROLLBACK runs on
//     a context detached from the caller, so a disconnected client cannot leak
//     the connection.
//   - The error returned by fn is returned unchanged.
func WithinTx(ctx context.Context, db TxBeginner, fn func(tx pgx.Tx) error) (err error) {
	transaction, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		rollbackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
		defer cancel()
		if rbErr := transaction.Rollback(rollbackCtx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) && err == nil {
			err = fmt.Errorf("postgres: rollback: %w", rbErr)
		}
	}()

	if err = fn(transaction); err != nil {
		return err
	}

	if err = transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit transaction: %w", err)
	}
	committed = true

	return nil
}
