// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/pinpoint/internal/platform/constants"
	"github.com/taibuivan/pinpoint/internal/platform/ctxutil"
	"github.com/taibuivan/pinpoint/internal/platform/sec"
)

// SessionOptions configures a [SessionManager].
type SessionOptions struct {
	// MaxAge is the absolute session lifetime, matching the cookie Max-Age.
	MaxAge time.Duration
	// TouchInterval is the minimum gap between last_seen_at writes. Zero
	// writes on every request. Only honored when Throttle is set.
	TouchInterval time.Duration
	// Throttle is optional.
	Throttle TouchThrottle
	// Logger receives sweeper events.
	Logger *slog.Logger
}

// SessionManager issues, resolves, touches and revokes opaque sessions.
//
// # Token Model
//
// A session token is 32 random bytes with no embedded claims. Storage only
// ever sees its hash, so a leaked table cannot be replayed as cookies.
type SessionManager struct {
	repository    Repository
	throttle      TouchThrottle
	maxAge        time.Duration
	touchInterval time.Duration
	logger        *slog.Logger
	now           func() time.Time

	touches sync.WaitGroup
}

// NewSessionManager constructs a [SessionManager].
func NewSessionManager(repository Repository, opts SessionOptions) *SessionManager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		repository:    repository,
		throttle:      opts.Throttle,
		maxAge:        opts.MaxAge,
		touchInterval: opts.TouchInterval,
		logger:        logger,
		now:           time.Now,
	}
}

// # Issue

// Issue creates a session for userID and returns the raw token for the cookie.
func (manager *SessionManager) Issue(ctx context.Context, userID int64) (string, error) {
	return manager.issueIn(ctx, manager.repository, userID)
}

// issueIn persists through store so login can issue inside its transaction.
func (manager *SessionManager) issueIn(ctx context.Context, store Repository, userID int64) (string, error) {
	token, err := sec.GenerateSecureToken(constants.SessionTokenLength)
	if err != nil {
		return "", fmt.Errorf("session_token_generation_failed: %w", err)
	}

	now := manager.now()
	session := &Session{
		Hash:       sec.HashToken(token),
		UserID:     userID,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := store.CreateSession(ctx, session); err != nil {
		return "", err
	}

	return token, nil
}

// # Resolve

// Resolve maps a raw token to its owner. A nil user with a nil error means
// the session is unknown, expired or orphaned.
func (manager *SessionManager) Resolve(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, nil
	}
	return manager.repository.ResolveSession(ctx, sec.HashToken(token), manager.now().Add(-manager.maxAge))
}

// Authenticate resolves a token into a fresh request-scoped principal.
func (manager *SessionManager) Authenticate(ctx context.Context, token string) (*sec.Principal, error) {
	user, err := manager.Resolve(ctx, token)
	if err != nil || user == nil {
		return nil, err
	}
	return user.principal(sec.HashToken(token)), nil
}

// # Touch

// Touch refreshes the session's last-activity timestamp, subject to the throttle.
func (manager *SessionManager) Touch(ctx context.Context, sessionHash string) error {
	if manager.throttle != nil && manager.touchInterval > 0 {
		due, err := manager.throttle.Allow(ctx, sessionHash, manager.touchInterval)
		if err != nil {
			// Throttle unavailable: fall through and write.
			ctxutil.GetLogger(ctx).DebugContext(ctx, "session_touch_throttle_failed", slog.String("error", err.Error()))
		} else if !due {
			return nil
		}
	}
	return manager.repository.TouchSession(ctx, sessionHash, manager.now())
}

// TouchAsync runs [SessionManager.Touch] in the background and returns
// immediately. The work is detached from ctx cancellation, bounded by its own
// timeout, and its failure is only logged.
func (manager *SessionManager) TouchAsync(ctx context.Context, sessionHash string) {
	detached := context.WithoutCancel(ctx)

	manager.touches.Add(1)
	go func() {
		defer manager.touches.Done()

		touchCtx, cancel := context.WithTimeout(detached, constants.SessionTouchTimeout)
		defer cancel()

		if err := manager.Touch(touchCtx, sessionHash); err != nil {
			ctxutil.GetLogger(detached).WarnContext(touchCtx, "session_touch_failed",
				slog.String("error", err.Error()),
			)
		}
	}()
}

// Drain blocks until in-flight background touches finish.
func (manager *SessionManager) Drain() {
	manager.touches.Wait()
}

// # Revoke

// Revoke deletes the session behind token. Unknown tokens are not an error.
func (manager *SessionManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return manager.repository.DeleteSession(ctx, sec.HashToken(token))
}

// # Expiry

// Sweep removes sessions older than the absolute lifetime.
func (manager *SessionManager) Sweep(ctx context.Context) (int64, error) {
	return manager.repository.DeleteExpiredSessions(ctx, manager.now().Add(-manager.maxAge))
}

// RunSweeper calls [SessionManager.Sweep] every interval until ctx is canceled.
func (manager *SessionManager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := manager.Sweep(ctx)
			if err != nil {
				manager.logger.ErrorContext(ctx, "session_sweep_failed", slog.String("error", err.Error()))
				continue
			}
			if removed > 0 {
				manager.logger.InfoContext(ctx, "session_sweep_completed", slog.Int64("removed", removed))
			}
		case <-ctx.Done():
			return
		}
	}
}
