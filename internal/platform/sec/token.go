// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides the security primitives shared by the session and
// authorization subsystems.
//
// # Architecture
//
// Session identifiers are opaque capability references. They carry no claims;
// all authority is looked up server-side. Only a hash of the identifier is
// ever persisted, so a leaked database row cannot be replayed as a cookie.
package sec

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// GenerateSecureToken returns a URL-safe random token of byteLength bytes of entropy.
func GenerateSecureToken(byteLength int) (string, error) {
	if byteLength < 16 {
		return "", fmt.Errorf("sec: token length %d is too short", byteLength)
	}

	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// HashToken returns the hex-encoded BLAKE2b-256 digest of token.
//
// The digest is the storage key for sessions; it is deterministic so lookups
// can be performed with a plain equality predicate.
func HashToken(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
