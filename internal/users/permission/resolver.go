// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package permission

import (
	"context"
	"fmt"

	"github.com/taibuivan/pinpoint/internal/platform/sec"
)

// Resolver computes permission sets and memoizes them per request.
type Resolver struct {
	repository Repository
}

// NewResolver constructs a [Resolver].
func NewResolver(repository Repository) *Resolver {
	return &Resolver{repository: repository}
}

/*
ListPermissions returns the caller's permission names, deduplicated and
lower-cased. Nothing is cached.

Returns:
  - []string: Never nil; empty for users without a role
  - error: Lookup failure, wrapped
*/
func (resolver *Resolver) ListPermissions(ctx context.Context, userID int64) ([]string, error) {
	set, err := resolver.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return set.List(), nil
}

/*
Resolve returns the principal's permission set, querying the store at most
once per request. Failures are never memoized, so a later gate in the same
request retries rather than inheriting an empty set.
*/
func (resolver *Resolver) Resolve(ctx context.Context, principal *sec.Principal) (sec.PermissionSet, error) {
	if cached, ok := principal.CachedPermissions(); ok {
		return cached, nil
	}

	set, err := resolver.load(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	principal.RememberPermissions(set)
	return set, nil
}

func (resolver *Resolver) load(ctx context.Context, userID int64) (sec.PermissionSet, error) {
	names, err := resolver.repository.UserPermissions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("permission_resolver_lookup_failed: %w", err)
	}
	return sec.NewPermissionSet(names...), nil
}
