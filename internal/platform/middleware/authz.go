// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/pinpoint/internal/platform/apperr"
	"github.com/taibuivan/pinpoint/internal/platform/ctxutil"
	"github.com/taibuivan/pinpoint/internal/platform/metrics"
	"github.com/taibuivan/pinpoint/internal/platform/respond"
	"github.com/taibuivan/pinpoint/internal/platform/sec"
)

// PermissionResolver resolves the permission set of an authenticated principal.
//
// Implementations memoize on the principal, so repeated gates in one request
// cost a single store query.
type PermissionResolver interface {
	Resolve(ctx context.Context, principal *sec.Principal) (sec.PermissionSet, error)
}

// Authorizer builds per-resource permission gates.
type Authorizer struct {
	resolver PermissionResolver
	metrics  *metrics.Metrics
}

// NewAuthorizer creates an [Authorizer]. m may be nil.
func NewAuthorizer(resolver PermissionResolver, m *metrics.Metrics) *Authorizer {
	return &Authorizer{resolver: resolver, metrics: m}
}

// Require returns a gate for a resource group guarded by a {read, manage}
// permission pair. Names are normalized once, here.
//
// # Flow
//  1. OPTIONS passes through (CORS preflight).
//  2. No principal attached: 401.
//  3. Resolve permissions (memoized per request).
//  4. GET/HEAD need read or manage; every other method needs manage.
//  5. Otherwise 403. A failed lookup is a 500, never a silent deny.
func (a *Authorizer) Require(read, manage string) func(http.Handler) http.Handler {
	access := sec.NewAccess(read, manage)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.Method == http.MethodOptions {
				next.ServeHTTP(writer, request)
				return
			}

			principal := ctxutil.GetPrincipal(request.Context())
			if principal == nil {
				respond.Error(writer, request, apperr.Unauthenticated("Unauthenticated"))
				return
			}

			logger := ctxutil.GetLogger(request.Context())

			perms, err := a.resolver.Resolve(request.Context(), principal)
			if err != nil {
				a.metrics.ObserveAuthz(metrics.DecisionError)
				logger.ErrorContext(request.Context(), "authz_lookup_failed",
					slog.Int64("user_id", principal.UserID),
					slog.String("error", err.Error()),
				)
				respond.Error(writer, request, apperr.Internal(err))
				return
			}

			required := access.Manage
			allowed := access.CanManage(perms)
			if IsSafeMethod(request.Method) {
				required = access.Read
				allowed = access.CanRead(perms)
			}

			if !allowed {
				a.metrics.ObserveAuthz(metrics.DecisionDenied)
				logger.WarnContext(request.Context(), "authz_denied",
					slog.Int64("user_id", principal.UserID),
					slog.String("required", required),
				)
				respond.Error(writer, request, apperr.Forbidden("Forbidden"))
				return
			}

			a.metrics.ObserveAuthz(metrics.DecisionAllowed)
			next.ServeHTTP(writer, request)
		})
	}
}

// IsSafeMethod reports whether method is treated as read-only for authorization.
func IsSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}
