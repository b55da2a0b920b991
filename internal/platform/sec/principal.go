// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"sync"
	"time"
)

// Principal is the authenticated identity attached to one in-flight request.
//
// # Request Scope
//
// A Principal is created by the identity middleware for every request and is
// discarded when the request ends. The permission memo lives on it, so resolved
// permissions can never leak across requests or users.
type Principal struct {
	UserID       int64
	Username     string
	Name         string
	Status       string
	RoleID       *int64
	RoleName     string
	DefaultRoute string
	LastLoginAt  *time.Time

	// SessionHash identifies the session that authenticated this request.
	SessionHash string

	mu          sync.Mutex
	permissions PermissionSet
	resolved    bool
}

// CachedPermissions returns the memoized permission set, if one was stored.
func (p *Principal) CachedPermissions() (PermissionSet, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.permissions, p.resolved
}

// RememberPermissions stores the permission set for the rest of the request.
func (p *Principal) RememberPermissions(set PermissionSet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.permissions = set
	p.resolved = true
}
