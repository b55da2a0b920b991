// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pinpoint/internal/platform/dberr"
	"github.com/taibuivan/pinpoint/internal/users/account"
	"github.com/taibuivan/pinpoint/pkg/pointer"
)

// fakeRepository keeps accounts and per-user session counts in memory.
type fakeRepository struct {
	accounts  map[int64]account.Account
	sessions  map[int64]int
	roles     map[int64]string
	nextID    int64
	commits   int
	rollbacks int
	filter    account.Filter
}

func newFakeRepository() *fakeRepository {
	lastLogin := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &fakeRepository{
		accounts: map[int64]account.Account{
			1: {ID: 1, Username: "alice@example.com", Name: "Alice", Status: account.StatusActive, LastLoginAt: &lastLogin},
		},
		sessions: map[int64]int{1: 2},
		roles:    map[int64]string{10: "Dispatcher"},
		nextID:   2,
	}
}

func (f *fakeRepository) InTx(_ context.Context, fn func(tx account.Repository) error) error {
	accounts := make(map[int64]account.Account, len(f.accounts))
	for k, v := range f.accounts {
		accounts[k] = v
	}
	sessions := make(map[int64]int, len(f.sessions))
	for k, v := range f.sessions {
		sessions[k] = v
	}

	if err := fn(f); err != nil {
		f.accounts, f.sessions = accounts, sessions
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

func (f *fakeRepository) List(_ context.Context, filter account.Filter, _, _ int) ([]account.Account, int, error) {
	f.filter = filter
	accounts := []account.Account{}
	for _, a := range f.accounts {
		accounts = append(accounts, a)
	}
	return accounts, len(accounts), nil
}

func (f *fakeRepository) FindByID(_ context.Context, id int64) (*account.Account, error) {
	found, ok := f.accounts[id]
	if !ok {
		return nil, dberr.Wrap(pgx.ErrNoRows, "find account", dberr.WithNotFound("User"))
	}
	if found.RoleID != nil {
		found.RoleName = pointer.To(f.roles[*found.RoleID])
	}
	return &found, nil
}

func (f *fakeRepository) check(a *account.Account) error {
	for id, existing := range f.accounts {
		if id != a.ID && existing.Username == a.Username {
			return dberr.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation}, "write account",
				dberr.WithConflict("Username already exists"))
		}
	}
	if a.RoleID != nil {
		if _, ok := f.roles[*a.RoleID]; !ok {
			return dberr.Wrap(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, "write account",
				dberr.WithInvalidReference("Unknown role_id"))
		}
	}
	return nil
}

func (f *fakeRepository) Create(_ context.Context, a *account.Account) error {
	if err := f.check(a); err != nil {
		return err
	}
	a.ID = f.nextID
	a.CreatedAt = time.Now()
	f.nextID++
	f.accounts[a.ID] = *a
	return nil
}

func (f *fakeRepository) Update(_ context.Context, a *account.Account) error {
	if err := f.check(a); err != nil {
		return err
	}
	stored := f.accounts[a.ID]
	stored.Username, stored.Name, stored.Status, stored.RoleID = a.Username, a.Name, a.Status, a.RoleID
	f.accounts[a.ID] = stored
	return nil
}

func (f *fakeRepository) RevokeSessions(_ context.Context, userID int64) (int64, error) {
	revoked := f.sessions[userID]
	delete(f.sessions, userID)
	return int64(revoked), nil
}

func serve(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(method, path, strings.NewReader(body)))
	return recorder
}

func newRouter(repository *fakeRepository) http.Handler {
	passthrough := func(next http.Handler) http.Handler { return next }
	return account.NewHandler(account.NewService(repository)).Routes(passthrough)
}

/*
TestCreate_Defaults verifies pending status and username normalization.
*/
func TestCreate_Defaults(t *testing.T) {
	repository := newFakeRepository()

	recorder := serve(newRouter(repository), http.MethodPost, "/",
		`{"username":"  Bob@Example.COM ","name":"Bob","role_id":10,"last_login_at":"2020-01-01T00:00:00Z"}`)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var created account.Account
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, "bob@example.com", created.Username)
	assert.Equal(t, account.StatusPending, created.Status)
	assert.Equal(t, "Dispatcher", pointer.Val(created.RoleName))
	assert.Nil(t, created.LastLoginAt)
}

/*
TestCreate_Failures covers conflict, bad reference and validation.
*/
func TestCreate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		errMsg string
	}{
		{"duplicate_username", `{"username":"ALICE@example.com","name":"Alice 2"}`, http.StatusConflict, "Username already exists"},
		{"unknown_role", `{"username":"carol@example.com","name":"Carol","role_id":77}`, http.StatusBadRequest, "Unknown role_id"},
		{"bad_status", `{"username":"carol@example.com","name":"Carol","status":"archived"}`, http.StatusBadRequest, "Validation failed"},
		{"bad_email", `{"username":"carol","name":"Carol"}`, http.StatusBadRequest, "Validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repository := newFakeRepository()

			recorder := serve(newRouter(repository), http.MethodPost, "/", tt.body)

			assert.Equal(t, tt.status, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.errMsg)
			assert.Len(t, repository.accounts, 1)
		})
	}
}

/*
TestUpdate_DeactivateRevokesSessions verifies sessions go with the status change.
*/
func TestUpdate_DeactivateRevokesSessions(t *testing.T) {
	repository := newFakeRepository()

	recorder := serve(newRouter(repository), http.MethodPatch, "/1", `{"status":"inactive"}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, account.StatusInactive, repository.accounts[1].Status)
	assert.Zero(t, repository.sessions[1])
	assert.Equal(t, 1, repository.commits)
}

/*
TestUpdate_FailureKeepsSessions verifies a rolled back update revokes nothing.
*/
func TestUpdate_FailureKeepsSessions(t *testing.T) {
	repository := newFakeRepository()

	recorder := serve(newRouter(repository), http.MethodPatch, "/1", `{"status":"inactive","role_id":77}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, account.StatusActive, repository.accounts[1].Status)
	assert.Equal(t, 2, repository.sessions[1])
	assert.Equal(t, 1, repository.rollbacks)
}

/*
TestUpdate_RoleAssignment verifies absent, set and explicit-null role_id.
*/
func TestUpdate_RoleAssignment(t *testing.T) {
	repository := newFakeRepository()
	router := newRouter(repository)

	require.Equal(t, http.StatusOK, serve(router, http.MethodPatch, "/1", `{"role_id":10}`).Code)
	assert.Equal(t, int64(10), pointer.Val(repository.accounts[1].RoleID))

	require.Equal(t, http.StatusOK, serve(router, http.MethodPatch, "/1", `{"name":"Alice B."}`).Code)
	assert.Equal(t, int64(10), pointer.Val(repository.accounts[1].RoleID))

	require.Equal(t, http.StatusOK, serve(router, http.MethodPatch, "/1", `{"role_id":null,"last_login_at":null}`).Code)
	assert.Nil(t, repository.accounts[1].RoleID)
	assert.NotNil(t, repository.accounts[1].LastLoginAt)
}

/*
TestList_StatusFilter verifies the filter parsing and total header.
*/
func TestList_StatusFilter(t *testing.T) {
	repository := newFakeRepository()
	router := newRouter(repository)

	recorder := serve(router, http.MethodGet, "/?status=pending,active&limit=10", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []string{"pending", "active"}, repository.filter.Statuses)
	assert.Equal(t, "1", recorder.Header().Get("X-Total-Count"))

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/?status=archived", "").Code)
}

/*
TestRevokeSessions verifies the sign-out-everywhere endpoint.
*/
func TestRevokeSessions(t *testing.T) {
	repository := newFakeRepository()
	router := newRouter(repository)

	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, "/1/sessions", "").Code)
	assert.Zero(t, repository.sessions[1])
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodDelete, "/9/sessions", "").Code)
}
