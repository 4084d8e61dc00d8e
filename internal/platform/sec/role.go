// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "slices"

// # Roles

// Role identifies which half of the console an account operates.
//
// The two roles are disjoint: a system administrator cannot open business
// screens and vice versa, so there is no hierarchy between them.
type Role string

const (
	// RoleSystemAdmin manages business administrators and platform funds.
	RoleSystemAdmin Role = "system_admin"

	// RoleBusinessAdmin manages one merchant's keys, users, points and events.
	RoleBusinessAdmin Role = "business_admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleSystemAdmin || r == RoleBusinessAdmin
}

// # Permissions

// Permission is a capability a business administrator may hold.
type Permission string

const (
	PermViewAssets    Permission = "view_assets"
	PermViewUsers     Permission = "view_users"
	PermManageAPIKeys Permission = "manage_api_keys"
	PermViewPoints    Permission = "view_points"
	PermAllocatePoint Permission = "allocate_points"
	PermConfigureSign Permission = "configure_sign"
)

// AllPermissions lists every permission in display order.
var AllPermissions = []Permission{
	PermViewAssets,
	PermViewUsers,
	PermManageAPIKeys,
	PermViewPoints,
	PermAllocatePoint,
	PermConfigureSign,
}

// Valid reports whether p is one of the known permissions.
func (p Permission) Valid() bool {
	return slices.Contains(AllPermissions, p)
}

// DefaultPermissions returns the bundle granted to a role when no stored
// configuration applies: none for system administrators, all six for
// business administrators.
func DefaultPermissions(role Role) []Permission {
	if role == RoleBusinessAdmin {
		return slices.Clone(AllPermissions)
	}
	return []Permission{}
}

// NormalizePermissions removes duplicates and orders the set like [AllPermissions].
func NormalizePermissions(perms []Permission) []Permission {
	normalized := make([]Permission, 0, len(perms))
	for _, candidate := range AllPermissions {
		if slices.Contains(perms, candidate) {
			normalized = append(normalized, candidate)
		}
	}
	return normalized
}

// HasPermission reports whether perms contains p.
func HasPermission(perms []Permission, p Permission) bool {
	return slices.Contains(perms, p)
}
