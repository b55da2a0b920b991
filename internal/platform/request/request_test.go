// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pinpoint/internal/platform/apperr"
	"github.com/taibuivan/pinpoint/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/pinpoint/internal/platform/request"
	"github.com/taibuivan/pinpoint/internal/platform/sec"
)

func withParam(request *http.Request, name, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(name, value)
	return request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeCtx))
}

/*
TestIDParam covers numeric, malformed and non-positive identifiers.
*/
func TestIDParam(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int64
		ok    bool
	}{
		{"valid", "42", 42, true},
		{"zero", "0", 0, false},
		{"negative", "-3", 0, false},
		{"text", "abc", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := withParam(httptest.NewRequest(http.MethodGet, "/", nil), "roleID", tt.value)

			id, err := requestutil.IDParam(request, "roleID", "Role")
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.want, id)
				return
			}
			assert.True(t, apperr.HasStatus(err, http.StatusNotFound))
			assert.Equal(t, "Role not found", err.Error())
		})
	}
}

/*
TestDecodeJSON verifies malformed bodies become a validation error.
*/
func TestDecodeJSON(t *testing.T) {
	var target struct {
		Name string `json:"name"`
	}

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Dock A"}`))
	require.NoError(t, requestutil.DecodeJSON(httptest.NewRecorder(), request, &target))
	assert.Equal(t, "Dock A", target.Name)

	request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	err := requestutil.DecodeJSON(httptest.NewRecorder(), request, &target)
	assert.True(t, apperr.HasStatus(err, http.StatusBadRequest))
}

/*
TestRequiredPrincipal verifies anonymous requests are rejected with 401.
*/
func TestRequiredPrincipal(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := requestutil.RequiredPrincipal(request)
	assert.True(t, apperr.HasStatus(err, http.StatusUnauthorized))

	principal := &sec.Principal{UserID: 5}
	request = request.WithContext(ctxutil.WithPrincipal(request.Context(), principal))
	got, err := requestutil.RequiredPrincipal(request)
	require.NoError(t, err)
	assert.Same(t, principal, got)
	assert.Same(t, principal, requestutil.Principal(request))
}
