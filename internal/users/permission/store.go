// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package permission

import "context"

// Repository defines the read-only data access contract for permissions.
type Repository interface {

	/*
		UserPermissions returns the distinct permission names granted to a user
		through their role.

		Parameters:
		  - ctx: context.Context
		  - userID: int64

		Returns:
		  - []string: Lowercase names, no duplicates, no particular order
		  - error: Store failures (never an empty slice in place of an error)
	*/
	UserPermissions(ctx context.Context, userID int64) ([]string, error)

	/*
		List returns the whole catalog ordered by name.

		Returns:
		  - []Permission: Catalog entries
		  - error: Store failures
	*/
	List(ctx context.Context) ([]Permission, error)
}
