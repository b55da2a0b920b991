// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/pinpoint/internal/platform/apperr"
	"github.com/taibuivan/pinpoint/internal/users/auth"
)

// fakeRepository is an in-memory [auth.Repository]. InTx snapshots state and
// restores it when fn fails, mimicking ROLLBACK.
type fakeRepository struct {
	mu sync.Mutex

	users    map[int64]auth.User
	sessions map[string]auth.Session

	commits   int
	rollbacks int
	touches   int
	openTx    int

	createErr error
	touchErr  error
	deleteErr error
}

func newFakeRepository(users ...auth.User) *fakeRepository {
	repository := &fakeRepository{
		users:    make(map[int64]auth.User),
		sessions: make(map[string]auth.Session),
	}
	for _, user := range users {
		repository.users[user.ID] = user
	}
	return repository
}

func (f *fakeRepository) InTx(_ context.Context, fn func(tx auth.Repository) error) error {
	f.mu.Lock()
	users := maps.Clone(f.users)
	sessions := maps.Clone(f.sessions)
	f.openTx++
	f.mu.Unlock()

	err := fn(f)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.openTx--
	if err != nil {
		f.users = users
		f.sessions = sessions
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

func (f *fakeRepository) FindUserForLogin(_ context.Context, userID int64) (*auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openTx == 0 {
		return nil, errors.New("row lock outside transaction")
	}
	user, ok := f.users[userID]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return &user, nil
}

func (f *fakeRepository) MarkLoggedIn(_ context.Context, userID int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := f.users[userID]
	user.Status = auth.StatusActive
	user.LastLoginAt = &at
	f.users[userID] = user
	return nil
}

func (f *fakeRepository) CreateSession(_ context.Context, session *auth.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.sessions[session.Hash] = *session
	return nil
}

func (f *fakeRepository) ResolveSession(_ context.Context, hash string, notBefore time.Time) (*auth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[hash]
	if !ok || !session.CreatedAt.After(notBefore) {
		return nil, nil
	}
	user, ok := f.users[session.UserID]
	if !ok || user.Status == auth.StatusInactive {
		return nil, nil
	}
	return &user, nil
}

func (f *fakeRepository) TouchSession(_ context.Context, hash string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touches++
	if f.touchErr != nil {
		return f.touchErr
	}
	if session, ok := f.sessions[hash]; ok {
		session.LastSeenAt = at
		f.sessions[hash] = session
	}
	return nil
}

func (f *fakeRepository) DeleteSession(_ context.Context, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.sessions, hash)
	return nil
}

func (f *fakeRepository) DeleteExpiredSessions(_ context.Context, notBefore time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var removed int64
	for hash, session := range f.sessions {
		if !session.CreatedAt.After(notBefore) {
			delete(f.sessions, hash)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeRepository) ListLoginUsers(context.Context) ([]auth.LoginUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var users []auth.LoginUser
	for _, user := range f.users {
		if user.Status == auth.StatusPending || user.Status == auth.StatusActive {
			users = append(users, auth.LoginUser{ID: user.ID, Name: user.Name, Username: user.Username})
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (f *fakeRepository) sessionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

func (f *fakeRepository) user(id int64) auth.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id]
}

// fakePermissions counts lookups.
type fakePermissions struct {
	mu     sync.Mutex
	grants map[int64][]string
	err    error
	calls  int
}

func (f *fakePermissions) ListPermissions(_ context.Context, userID int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if grants, ok := f.grants[userID]; ok {
		return grants, nil
	}
	return []string{}, nil
}

func (f *fakePermissions) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeThrottle admits the first touch per hash only.
type fakeThrottle struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func (f *fakeThrottle) Allow(_ context.Context, hash string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	if f.seen[hash] {
		return false, nil
	}
	f.seen[hash] = true
	return true, nil
}
