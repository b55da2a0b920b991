// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package role administers roles: named bundles of permissions with a default
landing route.

Every write that touches both the role row and its permission set runs in one
transaction, so a role is never observable with half of an update applied.
*/
package role

import "github.com/taibuivan/pinpoint/internal/users/permission"

// Permission names guarding role administration.
const (
	ViewRoles   = "view roles"
	ManageRoles = "manage roles"
)

// Field names used in validation errors.
const (
	FieldRoleName      = "role_name"
	FieldDefaultRoute  = "default_route"
	FieldPermissionIDs = "permission_ids"
)

// Client messages.
const (
	msgNameTaken         = "Role name already exists"
	msgUnknownPermission = "Unknown permission id"
)

// Role is a named permission bundle. Permissions are ordered by name.
type Role struct {
	ID           int64                   `json:"role_id"`
	Name         string                  `json:"role_name"`
	DefaultRoute *string                 `json:"default_route"`
	Permissions  []permission.Permission `json:"permissions"`
}

// CreateInput is the payload of POST /roles.
type CreateInput struct {
	Name          string  `json:"role_name"`
	DefaultRoute  *string `json:"default_route"`
	PermissionIDs []int64 `json:"permission_ids"`
}

// UpdateInput is the payload of PATCH /roles/{id}. Nil fields are left as is;
// a non-nil PermissionIDs replaces the whole set.
type UpdateInput struct {
	Name          *string  `json:"role_name"`
	DefaultRoute  *string  `json:"default_route"`
	PermissionIDs *[]int64 `json:"permission_ids"`
}
