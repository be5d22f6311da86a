// Copyright (c) 2026 Book Dolphin. All rights reserved.
// Author: platform@bookdolphin.io

package sec

// # Operator Roles

// Role represents the authorization level granted to a back office operator.
type Role string

const (
	// Unrestricted catalog access, including hard deletion
	RoleAdmin Role = "admin"

	// Can create, update, and move catalog entries
	RoleEditor Role = "editor"

	// Read-only access to admin views
	RoleViewer Role = "viewer"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleEditor:
		return 20
	case RoleViewer:
		return 10
	default:
		return 0
	}
}
