// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package permission resolves what an authenticated user may do.

A user's permissions are exactly the capability names joined through their
role. Users without a role resolve to the empty set.

# Request Scope

Resolution is memoized on the [sec.Principal] of the current request, so every
authorization gate in one request shares a single store query while nothing is
ever shared between requests or users.
*/
package permission

// Permission is one entry of the global capability catalog.
type Permission struct {
	ID         int64  `json:"permission_id"`
	Permission string `json:"permission"`
}

// Permission names guarding the catalog itself.
const (
	ViewPermissions   = "view permissions"
	ManagePermissions = "manage permissions"
)
