// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/pinpoint/internal/platform/apperr"
	"github.com/taibuivan/pinpoint/internal/platform/ctxutil"
	"github.com/taibuivan/pinpoint/internal/platform/respond"
	"github.com/taibuivan/pinpoint/internal/platform/sec"
)

// SessionAuthenticator resolves session cookies into principals.
//
// Authenticate returns (nil, nil) when the session does not exist, has expired,
// or its owner is gone. A non-nil error means the lookup itself failed.
// TouchAsync must return immediately; the activity update runs detached.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, sessionID string) (*sec.Principal, error)
	TouchAsync(ctx context.Context, sessionHash string)
}

// Identity resolves the caller of every non-exempt request before any route
// logic executes.
//
// # Flow
//  1. OPTIONS and exempt paths pass through untouched.
//  2. Missing cookie: clear it and fail 401.
//  3. Unknown session: clear the cookie and fail 401.
//  4. Otherwise attach the [sec.Principal], schedule a detached touch, continue.
//
// Exempt entries match the normalized path exactly or as a suffix, so
// "/auth/login" also exempts "/api/auth/login/".
func Identity(authenticator SessionAuthenticator, cookie sec.SessionCookie, exempt ...string) func(http.Handler) http.Handler {
	exemptions := make([]string, 0, len(exempt))
	for _, path := range exempt {
		exemptions = append(exemptions, normalizePath(path))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.Method == http.MethodOptions || isExempt(exemptions, request.URL.Path) {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 1. Cookie Extraction ──────────────────────────────────────────
			sessionID := cookie.Read(request)
			if sessionID == "" {
				cookie.Clear(writer)
				respond.Error(writer, request, apperr.Unauthenticated("Unauthenticated"))
				return
			}

			// ── 2. Session Resolution ─────────────────────────────────────────
			principal, err := authenticator.Authenticate(request.Context(), sessionID)
			if err != nil {
				respond.Error(writer, request, apperr.Internal(err))
				return
			}
			if principal == nil {
				cookie.Clear(writer)
				respond.Error(writer, request, apperr.Unauthenticated("Unauthenticated"))
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			logger := ctxutil.GetLogger(request.Context()).With(slog.Int64("user_id", principal.UserID))
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			ctx = ctxutil.WithLogger(ctx, logger)

			// Request latency never includes the activity update.
			authenticator.TouchAsync(ctx, principal.SessionHash)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// normalizePath strips trailing slashes; the root stays "/".
func normalizePath(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

func isExempt(exemptions []string, path string) bool {
	normalized := normalizePath(path)
	for _, candidate := range exemptions {
		if normalized == candidate || strings.HasSuffix(normalized, candidate) {
			return true
		}
	}
	return false
}
