// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role

import "context"

// Repository defines the data access contract for roles.
type Repository interface {
	// InTx runs fn on a Repository bound to one transaction.
	InTx(ctx context.Context, fn func(tx Repository) error) error

	List(ctx context.Context) ([]Role, error)
	FindByID(ctx context.Context, id int64) (*Role, error)

	// Create inserts the role row and sets role.ID.
	Create(ctx context.Context, role *Role) error
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id int64) error

	// ReplacePermissions swaps the role's whole permission set.
	ReplacePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error
}
