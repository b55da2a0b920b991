// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Account Status

const (
	// StatusPending marks a provisioned account that has never logged in.
	// The first successful login promotes it to [StatusActive].
	StatusPending = "pending"

	// StatusActive accounts may log in.
	StatusActive = "active"

	// StatusInactive accounts are refused at login and hold no sessions.
	StatusInactive = "inactive"
)

// # Login Outcomes (metrics labels)

const (
	outcomeSucceeded = "succeeded"
	outcomeInvalid   = "invalid"
	outcomeNotFound  = "not_found"
	outcomeRefused   = "refused"
	outcomeError     = "error"
)

// # Client Messages

const (
	msgUserIDRequired    = "user_id is required."
	msgAccountInactive   = "User account is inactive"
	msgAccountIneligible = "User account is not eligible to log in"
)
