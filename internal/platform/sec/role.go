// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

package sec

// # User Roles

// RoleName identifies an authorization role granted to an account.
//
// Role membership is many-valued: an account may hold several roles at once
// (e.g. an ADMIN who also teaches). Roles are assigned at registration and
// are immutable afterwards.
type RoleName string

const (
	// Unrestricted access across every service
	RoleAdmin RoleName = "ADMIN"

	// Can create and manage classrooms, courses and tasks they own
	RoleTeacher RoleName = "TEACHER"

	// Can join classrooms and submit work against open tasks
	RoleStudent RoleName = "STUDENT"
)

// AllRoles lists every role accepted at registration.
func AllRoles() []RoleName {
	return []RoleName{RoleAdmin, RoleTeacher, RoleStudent}
}

// Valid reports whether r is one of the known role names.
func (r RoleName) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	default:
		return false
	}
}

// ParseRoles converts raw strings into validated [RoleName] values.
// It returns false if any name is unknown.
func ParseRoles(raw []string) ([]RoleName, bool) {
	roles := make([]RoleName, 0, len(raw))
	for _, name := range raw {
		role := RoleName(name)
		if !role.Valid() {
			return nil, false
		}
		roles = append(roles, role)
	}
	return roles, true
}

// RoleStrings converts a role slice back to plain strings (for JWT claims).
func RoleStrings(roles []RoleName) []string {
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		out = append(out, string(role))
	}
	return out
}
