// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user administration: provisioning, status changes and
role assignment.

# Architecture

  - Entities: Account, OptionalID (tri-state JSON field).
  - Security: Deactivating an account revokes every session it holds in the
    same transaction, so no request authenticated by it can succeed afterwards.
  - last_login_at is owned by the login flow and never accepted from clients.
*/
package account

import (
	"context"
	"encoding/json"
	"time"
)

// Permission names guarding user administration.
const (
	ViewUsers   = "view users"
	ManageUsers = "manage users"
)

// Account statuses. These mirror the values the login flow understands.
const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Field names used in validation errors.
const (
	FieldUsername = "username"
	FieldName     = "name"
	FieldStatus   = "status"
	FieldRoleID   = "role_id"
)

const (
	msgUsernameTaken = "Username already exists"
	msgUnknownRole   = "Unknown role_id"
)

// # Domain Entities

// Account is the administrative view of a user.
type Account struct {
	ID          int64      `json:"user_id"`
	Username    string     `json:"username"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	RoleID      *int64     `json:"role_id"`
	RoleName    *string    `json:"role_name"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Filter narrows account listings.
type Filter struct {
	// Statuses limits results to these statuses; empty means all.
	Statuses []string
}

// CreateInput is the payload of POST /users.
type CreateInput struct {
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Status   *string `json:"status"`
	RoleID   *int64  `json:"role_id"`
}

// UpdateInput is the payload of PATCH /users/{id}. Absent fields are kept.
type UpdateInput struct {
	Username *string    `json:"username"`
	Name     *string    `json:"name"`
	Status   *string    `json:"status"`
	RoleID   OptionalID `json:"role_id"`
}

// OptionalID distinguishes an absent field from an explicit null.
type OptionalID struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON runs only when the key is present.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var value int64
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}

// # Repository Contracts

// Repository defines the persistence contract for accounts.
type Repository interface {
	// InTx runs fn on a Repository bound to one transaction.
	InTx(ctx context.Context, fn func(tx Repository) error) error

	/*
		List returns one page of accounts ordered by name, and the total count.
	*/
	List(ctx context.Context, filter Filter, limit, offset int) ([]Account, int, error)

	FindByID(ctx context.Context, id int64) (*Account, error)

	// Create inserts the account and sets ID and CreatedAt.
	Create(ctx context.Context, account *Account) error

	// Update writes username, name, status and role_id.
	Update(ctx context.Context, account *Account) error

	// RevokeSessions deletes every session owned by userID.
	RevokeSessions(ctx context.Context, userID int64) (int64, error)
}
