// Package models holds the server-side domain records: users, sessions,
// facilities and calendar events.
package models

import (
	"slices"
	"time"
)

type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleAuthority     Role = "authority"
)

// DefaultAdminEmail identifies the built-in administrator account. It is
// seeded at startup and can never be updated or deleted through the API.
const DefaultAdminEmail = "admin@colegio.edu"

type Permission string

const (
	PermissionRead              Permission = "read"
	PermissionWrite             Permission = "write"
	PermissionDelete            Permission = "delete"
	PermissionManageUsers       Permission = "manage_users"
	PermissionManageMaintenance Permission = "manage_maintenance"
	PermissionManageCalendar    Permission = "manage_calendar"
)

// RolePermissions is the fixed role→permission table applied at
// registration and whenever an administrator changes a user's role.
// Unknown roles get the minimal read-only set.
func RolePermissions(role Role) []Permission {
	switch role {
	case RoleAdministrator:
		return []Permission{
			PermissionRead, PermissionWrite, PermissionDelete,
			PermissionManageUsers, PermissionManageMaintenance, PermissionManageCalendar,
		}
	case RoleAuthority:
		return []Permission{
			PermissionRead, PermissionWrite,
			PermissionManageMaintenance, PermissionManageCalendar,
		}
	default:
		return []Permission{PermissionRead}
	}
}

// User is the stored identity record. Password material only ever exists
// as a hash produced by the credential verifier.
type User struct {
	ID               string
	Email            string
	PasswordHash     string
	Name             string
	Role             Role
	Permissions      []Permission
	Active           bool
	RegistrationDate time.Time
}

// Public returns the externally visible projection of the user. It never
// carries the credential hash or the permission set.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Role:             u.Role,
		Active:           u.Active,
		RegistrationDate: u.RegistrationDate,
	}
}

type PublicUser struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Role             Role      `json:"role"`
	Active           bool      `json:"active"`
	RegistrationDate time.Time `json:"registration_date"`
}

// HasPermission reports whether perms contains p.
func HasPermission(perms []Permission, p Permission) bool {
	return slices.Contains(perms, p)
}
