// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements session-based authentication.

Architecture:

  - SessionManager: opaque session tokens, hashed at rest, with an absolute
    lifetime, throttled activity touches and a background sweeper.
  - Service: the transactional login state machine and idempotent logout.
  - Handler: the /auth routes and session cookie transport.

A session token is a capability reference only. All authority (status, role,
permissions) is looked up server-side on every request.
*/
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/pinpoint/internal/platform/apperr"
	"github.com/taibuivan/pinpoint/internal/platform/ctxutil"
	"github.com/taibuivan/pinpoint/internal/platform/metrics"
	"github.com/taibuivan/pinpoint/internal/platform/sec"
)

// # Contracts & Types

// PermissionLister lists a user's resolved permission names.
type PermissionLister interface {
	ListPermissions(ctx context.Context, userID int64) ([]string, error)
}

// Service implements the login and logout use cases.
type Service struct {
	repository  Repository
	sessions    *SessionManager
	permissions PermissionLister
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewService constructs a new [Service]. m may be nil.
func NewService(repository Repository, sessions *SessionManager, permissions PermissionLister, m *metrics.Metrics) *Service {
	return &Service{
		repository:  repository,
		sessions:    sessions,
		permissions: permissions,
		metrics:     m,
		now:         time.Now,
	}
}

// LoginResult is a committed login: the identity to return and the raw
// token to place in the cookie.
type LoginResult struct {
	Identity Identity
	Token    string
}

// # Authentication Flow

/*
Login authenticates userID and opens a session.

Description: The user fetch, status check, promotion, login stamp and session
insert run in one transaction, in that order. Permissions are resolved only
after commit, and never for a refused account.

Returns:
  - *LoginResult: Identity with permissions, plus the raw session token
  - error: 400 bad id, 404 unknown user, 403 inactive or unrecognized status
*/
func (service *Service) Login(ctx context.Context, userID int64) (*LoginResult, error) {
	if userID <= 0 {
		service.metrics.ObserveLogin(outcomeInvalid)
		return nil, apperr.ValidationError(msgUserIDRequired)
	}

	var user *User
	var token string

	err := service.repository.InTx(ctx, func(tx Repository) error {
		found, err := tx.FindUserForLogin(ctx, userID)
		if err != nil {
			return err
		}

		if err := checkEligible(found.Status); err != nil {
			return err
		}

		now := service.now()
		if err := tx.MarkLoggedIn(ctx, found.ID, now); err != nil {
			return err
		}
		found.Status = StatusActive
		found.LastLoginAt = &now

		token, err = service.sessions.issueIn(ctx, tx, found.ID)
		if err != nil {
			return err
		}

		user = found
		return nil
	})
	if err != nil {
		service.metrics.ObserveLogin(loginOutcome(err))
		return nil, err
	}

	permissions, err := service.permissions.ListPermissions(ctx, user.ID)
	if err != nil {
		service.metrics.ObserveLogin(outcomeError)
		// The session is committed but its cookie will never be set.
		if revokeErr := service.sessions.Revoke(ctx, token); revokeErr != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "login_session_cleanup_failed",
				slog.Int64("user_id", user.ID),
				slog.String("error", revokeErr.Error()),
			)
		}
		return nil, err
	}

	service.metrics.ObserveLogin(outcomeSucceeded)
	ctxutil.GetLogger(ctx).InfoContext(ctx, "login_succeeded", slog.Int64("user_id", user.ID))

	return &LoginResult{
		Identity: Identity{User: *user, Permissions: permissions},
		Token:    token,
	}, nil
}

// checkEligible admits pending and active accounts only.
func checkEligible(status string) error {
	switch status {
	case StatusPending, StatusActive:
		return nil
	case StatusInactive:
		return apperr.Forbidden(msgAccountInactive)
	default:
		return apperr.Forbidden(msgAccountIneligible)
	}
}

func loginOutcome(err error) string {
	appError := apperr.As(err)
	if appError == nil {
		return outcomeError
	}
	switch appError.Code {
	case apperr.CodeNotFound:
		return outcomeNotFound
	case apperr.CodeForbidden:
		return outcomeRefused
	case apperr.CodeValidation:
		return outcomeInvalid
	default:
		return outcomeError
	}
}

/*
Logout revokes the session behind token.

Description: Idempotent. An empty, unknown or already revoked token succeeds,
so the caller cannot learn whether the session was valid.
*/
func (service *Service) Logout(ctx context.Context, token string) error {
	return service.sessions.Revoke(ctx, token)
}

// # Session Probe

// Me returns the caller's identity and permission list.
func (service *Service) Me(ctx context.Context, principal *sec.Principal) (*Identity, error) {
	permissions, err := service.permissions.ListPermissions(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	return &Identity{User: userFromPrincipal(principal), Permissions: permissions}, nil
}

// UsersForLogin lists accounts that may log in, for the login picker.
func (service *Service) UsersForLogin(ctx context.Context) ([]LoginUser, error) {
	users, err := service.repository.ListLoginUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []LoginUser{}
	}
	return users, nil
}
