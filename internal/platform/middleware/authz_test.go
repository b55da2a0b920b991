// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pinpoint/internal/platform/ctxutil"
	"github.com/taibuivan/pinpoint/internal/platform/metrics"
	"github.com/taibuivan/pinpoint/internal/platform/middleware"
	"github.com/taibuivan/pinpoint/internal/platform/sec"
)

// fakeResolver memoizes on the principal the way the real resolver does.
type fakeResolver struct {
	grants  []string
	err     error
	queries int
}

func (f *fakeResolver) Resolve(_ context.Context, principal *sec.Principal) (sec.PermissionSet, error) {
	if cached, ok := principal.CachedPermissions(); ok {
		return cached, nil
	}
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	set := sec.NewPermissionSet(f.grants...)
	principal.RememberPermissions(set)
	return set, nil
}

func serveGated(t *testing.T, gate func(http.Handler) http.Handler, method string, principal *sec.Principal) (int, bool) {
	t.Helper()

	reached := false
	inner := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		reached = true
		writer.WriteHeader(http.StatusOK)
	})

	request := httptest.NewRequest(method, "/locations", nil)
	if principal != nil {
		request = request.WithContext(ctxutil.WithPrincipal(request.Context(), principal))
	}

	recorder := httptest.NewRecorder()
	gate(inner).ServeHTTP(recorder, request)
	return recorder.Code, reached
}

/*
TestRequire_MethodClasses verifies read/manage separation per method class.
*/
func TestRequire_MethodClasses(t *testing.T) {
	tests := []struct {
		name   string
		grants []string
		method string
		want   int
	}{
		{"read_get", []string{"view locations"}, http.MethodGet, http.StatusOK},
		{"read_head", []string{"view locations"}, http.MethodHead, http.StatusOK},
		{"read_post", []string{"view locations"}, http.MethodPost, http.StatusForbidden},
		{"read_patch", []string{"view locations"}, http.MethodPatch, http.StatusForbidden},
		{"read_put", []string{"view locations"}, http.MethodPut, http.StatusForbidden},
		{"read_delete", []string{"view locations"}, http.MethodDelete, http.StatusForbidden},
		{"manage_get", []string{"manage locations"}, http.MethodGet, http.StatusOK},
		{"manage_post", []string{"manage locations"}, http.MethodPost, http.StatusOK},
		{"manage_delete", []string{"manage locations"}, http.MethodDelete, http.StatusOK},
		{"unrelated_get", []string{"manage users"}, http.MethodGet, http.StatusForbidden},
		{"none_get", nil, http.MethodGet, http.StatusForbidden},
		{"case_insensitive", []string{"VIEW Locations"}, http.MethodGet, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authorizer := middleware.NewAuthorizer(&fakeResolver{grants: tt.grants}, nil)
			gate := authorizer.Require("View Locations", "Manage Locations")

			code, reached := serveGated(t, gate, tt.method, &sec.Principal{UserID: 1})

			assert.Equal(t, tt.want, code)
			assert.Equal(t, tt.want == http.StatusOK, reached)
		})
	}
}

/*
TestRequire_Preflight verifies OPTIONS bypasses the gate even without identity.
*/
func TestRequire_Preflight(t *testing.T) {
	resolver := &fakeResolver{}
	gate := middleware.NewAuthorizer(resolver, nil).Require("view roles", "manage roles")

	code, reached := serveGated(t, gate, http.MethodOptions, nil)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, reached)
	assert.Zero(t, resolver.queries)
}

/*
TestRequire_NoPrincipal verifies the gate refuses anonymous callers with 401.
*/
func TestRequire_NoPrincipal(t *testing.T) {
	resolver := &fakeResolver{}
	gate := middleware.NewAuthorizer(resolver, nil).Require("view roles", "manage roles")

	code, reached := serveGated(t, gate, http.MethodGet, nil)

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, reached)
	assert.Zero(t, resolver.queries)
}

/*
TestRequire_LookupFailure verifies a store failure is a 500, not a denial.
*/
func TestRequire_LookupFailure(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	resolver := &fakeResolver{err: errors.New("too many connections")}
	gate := middleware.NewAuthorizer(resolver, m).Require("view roles", "manage roles")

	code, reached := serveGated(t, gate, http.MethodGet, &sec.Principal{UserID: 3})

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.False(t, reached)

	count, err := testutil.GatherAndCount(registry, "authz_decisions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

/*
TestRequire_MemoizedPerRequest verifies stacked gates cost one lookup.
*/
func TestRequire_MemoizedPerRequest(t *testing.T) {
	resolver := &fakeResolver{grants: []string{"manage users", "view roles"}}
	authorizer := middleware.NewAuthorizer(resolver, nil)

	reached := false
	inner := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		reached = true
	})
	handler := authorizer.Require("view users", "manage users")(
		authorizer.Require("view roles", "manage roles")(inner),
	)

	principal := &sec.Principal{UserID: 9}
	request := httptest.NewRequest(http.MethodGet, "/users", nil)
	request = request.WithContext(ctxutil.WithPrincipal(request.Context(), principal))
	handler.ServeHTTP(httptest.NewRecorder(), request)

	assert.True(t, reached)
	assert.Equal(t, 1, resolver.queries)

	// A new request carries a new principal and therefore a fresh lookup.
	_, _ = serveGated(t, authorizer.Require("view users", "manage users"), http.MethodGet, &sec.Principal{UserID: 9})
	assert.Equal(t, 2, resolver.queries)
}

/*
TestIsSafeMethod covers the method classification.
*/
func TestIsSafeMethod(t *testing.T) {
	assert.True(t, middleware.IsSafeMethod(http.MethodGet))
	assert.True(t, middleware.IsSafeMethod(http.MethodHead))
	assert.False(t, middleware.IsSafeMethod(http.MethodPost))
	assert.False(t, middleware.IsSafeMethod(http.MethodOptions))
}
