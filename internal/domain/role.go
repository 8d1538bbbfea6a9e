package domain

import (
	"fmt"
	"strings"
)

// Role is an ordered privilege level. Lower rank means higher privilege;
// the order is used only for picking a display role, never for access checks.
type Role int

const (
	RoleAdmin Role = iota
	RoleRecruiter
	RoleStaff
	RoleUser
)

var roleNames = map[Role]string{
	RoleAdmin:     "ADMIN",
	RoleRecruiter: "RECRUITER",
	RoleStaff:     "STAFF",
	RoleUser:      "USER",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("ROLE(%d)", int(r))
}

// ParseRole maps a role name to its Role value, case-insensitively.
func ParseRole(name string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ADMIN":
		return RoleAdmin, nil
	case "RECRUITER":
		return RoleRecruiter, nil
	case "STAFF":
		return RoleStaff, nil
	case "USER":
		return RoleUser, nil
	default:
		return 0, fmt.Errorf("unknown role %q", name)
	}
}

// ParseRoles converts a list of role names, rejecting unknown entries.
func ParseRoles(names []string) ([]Role, error) {
	roles := make([]Role, 0, len(names))
	for _, name := range names {
		role, err := ParseRole(name)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// RoleNames renders roles back to their wire names, preserving order.
func RoleNames(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.String())
	}
	return names
}

// ExpandRole returns the role plus every role below it in the hierarchy.
// A recruiter is also staff and a user; an admin is everything.
func ExpandRole(role Role) []Role {
	expanded := make([]Role, 0, 4)
	for r := role; r <= RoleUser; r++ {
		expanded = append(expanded, r)
	}
	return expanded
}

// PrimaryRole picks the highest-privilege role for profile display.
// Returns RoleUser when the set is empty.
func PrimaryRole(roles []Role) Role {
	primary := RoleUser
	for _, role := range roles {
		if role < primary {
			primary = role
		}
	}
	return primary
}

// HasRole reports whether the set contains the given role.
func HasRole(roles []Role, want Role) bool {
	for _, role := range roles {
		if role == want {
			return true
		}
	}
	return false
}
