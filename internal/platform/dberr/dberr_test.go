// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pinpoint/internal/platform/apperr"
	"github.com/taibuivan/pinpoint/internal/platform/dberr"
)

/*
TestWrap_Classification covers the SQLSTATE to status mapping.
*/
func TestWrap_Classification(t *testing.T) {
	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "role_role_name_key"}
	foreign := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}

	tests := []struct {
		name    string
		err     error
		opts    []dberr.Option
		status  int
		message string
	}{
		{"no_rows", pgx.ErrNoRows, []dberr.Option{dberr.WithNotFound("Role")}, http.StatusNotFound, "Role not found"},
		{"unique_translated", unique, []dberr.Option{dberr.WithConflict("Role name already exists")}, http.StatusConflict, "Role name already exists"},
		{"unique_wrapped", fmt.Errorf("insert: %w", unique), []dberr.Option{dberr.WithConflict("dup")}, http.StatusConflict, "dup"},
		{"unique_without_option", unique, nil, http.StatusInternalServerError, "An unexpected error occurred"},
		{"foreign_key", foreign, []dberr.Option{dberr.WithInvalidReference("Unknown permission")}, http.StatusBadRequest, "Unknown permission"},
		{"other", errors.New("connection reset"), nil, http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := apperr.As(dberr.Wrap(tt.err, "test_action", tt.opts...))
			require.NotNil(t, ae)
			assert.Equal(t, tt.status, ae.HTTPStatus)
			assert.Equal(t, tt.message, ae.Message)
			assert.NotContains(t, ae.Message, "role_role_name_key")
		})
	}
}

/*
TestWrap_Passthrough verifies nil and already-classified errors are untouched.
*/
func TestWrap_Passthrough(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))

	forbidden := apperr.Forbidden("nope")
	assert.Same(t, forbidden, dberr.Wrap(forbidden, "noop"))
}
