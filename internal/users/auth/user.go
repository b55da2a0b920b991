// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"time"

	"github.com/taibuivan/pinpoint/internal/platform/sec"
	"github.com/taibuivan/pinpoint/pkg/pointer"
)

// User is the normalized identity produced by joining account and role.
type User struct {
	ID           int64      `json:"user_id"`
	Username     string     `json:"username"`
	Name         string     `json:"name"`
	Status       string     `json:"status"`
	RoleID       *int64     `json:"role_id"`
	RoleName     *string    `json:"role_name"`
	DefaultRoute *string    `json:"default_route"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

// Identity is the body returned by login and /auth/me.
type Identity struct {
	User
	Permissions []string `json:"permissions"`
}

// LoginUser is one entry of the pre-login user picker.
type LoginUser struct {
	ID       int64  `json:"user_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Session is a stored session row. The raw token never reaches storage;
// only its hash does.
type Session struct {
	Hash       string
	UserID     int64
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// principal builds the request-scoped identity for a resolved session.
func (user *User) principal(sessionHash string) *sec.Principal {
	return &sec.Principal{
		UserID:       user.ID,
		Username:     user.Username,
		Name:         user.Name,
		Status:       user.Status,
		RoleID:       user.RoleID,
		RoleName:     pointer.Val(user.RoleName),
		DefaultRoute: pointer.Val(user.DefaultRoute),
		LastLoginAt:  user.LastLoginAt,
		SessionHash:  sessionHash,
	}
}

// userFromPrincipal is the inverse of [User.principal].
func userFromPrincipal(principal *sec.Principal) User {
	return User{
		ID:           principal.UserID,
		Username:     principal.Username,
		Name:         principal.Name,
		Status:       principal.Status,
		RoleID:       principal.RoleID,
		RoleName:     pointer.NilIfZero(principal.RoleName),
		DefaultRoute: pointer.NilIfZero(principal.DefaultRoute),
		LastLoginAt:  principal.LastLoginAt,
	}
}
