// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Classification is driven by the structured SQLSTATE carried in
// [pgconn.PgError]; raw constraint names never reach the client.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/pinpoint/internal/platform/apperr"
)

// Option customizes how [Wrap] translates a classified error.
type Option func(*translation)

type translation struct {
	notFound string
	conflict string
	invalid  string
}

// WithNotFound names the resource used in the 404 message.
func WithNotFound(resource string) Option {
	return func(t *translation) { t.notFound = resource }
}

// WithConflict sets the domain message returned for unique violations.
func WithConflict(message string) Option {
	return func(t *translation) { t.conflict = message }
}

// WithInvalidReference sets the message returned for foreign-key violations.
func WithInvalidReference(message string) Option {
	return func(t *translation) { t.invalid = message }
}

// Wrap inspects a database error and converts it into an [apperr.AppError].
//
// Mapping:
//   - pgx.ErrNoRows        -> 404
//   - unique_violation     -> 409 (only when [WithConflict] is given)
//   - foreign_key_violation -> 400 (only when [WithInvalidReference] is given)
//   - anything else        -> 500, cause annotated with action
func Wrap(err error, action string, opts ...Option) error {
	if err == nil {
		return nil
	}

	// Already classified upstream.
	if apperr.As(err) != nil {
		return err
	}

	t := translation{notFound: "Resource"}
	for _, opt := range opts {
		opt(&t)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(t.notFound)
	}

	if t.conflict != "" && IsUniqueViolation(err) {
		return apperr.Conflict(t.conflict).WithCause(err)
	}

	if t.invalid != "" && IsForeignKeyViolation(err) {
		return apperr.ValidationError(t.invalid).WithCause(err)
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsUniqueViolation reports whether err is a PostgreSQL unique_violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, pgerrcode.UniqueViolation)
}

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign_key_violation.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, pgerrcode.ForeignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
