// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pinpoint/internal/platform/sec"
)

/*
TestGenerateSecureToken verifies uniqueness and the minimum entropy guard.
*/
func TestGenerateSecureToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := sec.GenerateSecureToken(32)
		require.NoError(t, err)
		assert.Len(t, token, 43)

		_, dup := seen[token]
		assert.False(t, dup)
		seen[token] = struct{}{}
	}

	_, err := sec.GenerateSecureToken(8)
	assert.Error(t, err)
}

/*
TestHashToken checks that hashing is deterministic and hides the input.
*/
func TestHashToken(t *testing.T) {
	first := sec.HashToken("opaque-token")
	second := sec.HashToken("opaque-token")

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, sec.HashToken("other-token"))
	assert.NotContains(t, first, "opaque")
}

/*
TestPermissionSet covers normalization and deduplication.
*/
func TestPermissionSet(t *testing.T) {
	set := sec.NewPermissionSet("Manage Users", "manage users", "  VIEW locations ", "")

	assert.Equal(t, []string{"manage users", "view locations"}, set.List())
	assert.True(t, set.Has("MANAGE USERS"))
	assert.False(t, set.Has("view users"))

	assert.NotNil(t, sec.NewPermissionSet().List())
}

/*
TestAccess verifies that manage implies read.
*/
func TestAccess(t *testing.T) {
	access := sec.NewAccess("View Locations", "Manage Locations")
	assert.Equal(t, "view locations", access.Read)
	assert.Equal(t, "manage locations", access.Manage)

	tests := []struct {
		name      string
		perms     sec.PermissionSet
		canRead   bool
		canManage bool
	}{
		{"none", sec.NewPermissionSet(), false, false},
		{"read_only", sec.NewPermissionSet("view locations"), true, false},
		{"manage_only", sec.NewPermissionSet("manage locations"), true, true},
		{"unrelated", sec.NewPermissionSet("manage users"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.canRead, access.CanRead(tt.perms))
			assert.Equal(t, tt.canManage, access.CanManage(tt.perms))
		})
	}
}

/*
TestPrincipal_Memo verifies the per-request permission memo.
*/
func TestPrincipal_Memo(t *testing.T) {
	principal := &sec.Principal{UserID: 7}

	_, ok := principal.CachedPermissions()
	assert.False(t, ok)

	principal.RememberPermissions(sec.NewPermissionSet("view roles"))
	perms, ok := principal.CachedPermissions()
	assert.True(t, ok)
	assert.True(t, perms.Has("view roles"))
}

/*
TestSessionCookie checks the cookie attributes on write, read and clear.
*/
func TestSessionCookie(t *testing.T) {
	cookie := sec.SessionCookie{Name: "pp_session", MaxAge: 7 * 24 * time.Hour, Secure: true}

	recorder := httptest.NewRecorder()
	cookie.Write(recorder, "abc")

	written := recorder.Result().Cookies()
	require.Len(t, written, 1)
	assert.Equal(t, "pp_session", written[0].Name)
	assert.Equal(t, "abc", written[0].Value)
	assert.Equal(t, "/", written[0].Path)
	assert.Equal(t, 604800, written[0].MaxAge)
	assert.True(t, written[0].HttpOnly)
	assert.True(t, written[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, written[0].SameSite)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, cookie.Read(request))
	request.AddCookie(&http.Cookie{Name: "pp_session", Value: "abc"})
	assert.Equal(t, "abc", cookie.Read(request))

	cleared := httptest.NewRecorder()
	cookie.Clear(cleared)
	clearedCookies := cleared.Result().Cookies()
	require.Len(t, clearedCookies, 1)
	assert.Empty(t, clearedCookies[0].Value)
	assert.Equal(t, -1, clearedCookies[0].MaxAge)
}
