// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// A cases.Caser keeps state and is not safe for concurrent use, so one is built per call.
var lowerTag = language.Und

// NormalizePermission trims and lower-cases a permission name.
//
// All membership tests operate on normalized names, which makes permission
// comparison case-insensitive.
func NormalizePermission(name string) string {
	return cases.Lower(lowerTag).String(strings.TrimSpace(name))
}

// NormalizeUsername lower-cases a username (an email address) for storage and lookup.
func NormalizeUsername(username string) string {
	return cases.Lower(lowerTag).String(strings.TrimSpace(username))
}

// # Permission Sets

// PermissionSet is a set of normalized permission names.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from raw names, normalizing and deduplicating them.
// Empty names are skipped.
func NewPermissionSet(names ...string) PermissionSet {
	set := make(PermissionSet, len(names))
	for _, name := range names {
		normalized := NormalizePermission(name)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return set
}

// Has reports whether the set contains name (case-insensitive).
func (s PermissionSet) Has(name string) bool {
	_, ok := s[NormalizePermission(name)]
	return ok
}

// List returns the set as a sorted slice. It never returns nil.
func (s PermissionSet) List() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// # Resource Access Pairs

// Access names the permissions that guard one resource group.
//
// Manage implies Read: a caller holding Manage may also use safe methods.
type Access struct {
	Read   string
	Manage string
}

// NewAccess builds an [Access] with both names normalized.
func NewAccess(read, manage string) Access {
	return Access{
		Read:   NormalizePermission(read),
		Manage: NormalizePermission(manage),
	}
}

// CanRead reports whether perms allow safe (GET/HEAD) requests.
func (a Access) CanRead(perms PermissionSet) bool {
	return perms.Has(a.Read) || perms.Has(a.Manage)
}

// CanManage reports whether perms allow mutating requests.
func (a Access) CanManage(perms PermissionSet) bool {
	return perms.Has(a.Manage)
}
