package model

import "time"

// User represents an account (separate from the listings it owns).
type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Phone        string     `json:"phone,omitempty"`
	Location     string     `json:"location,omitempty"`
	Bio          string     `json:"bio,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
}

// Roles.
const (
	RoleUser        = "user"
	RoleGestor      = "gestor"
	RoleCoordinador = "coordinador"
	RoleAdmin       = "admin"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	_, ok := roleCapabilities[role]
	return ok
}

// Capability names an operation a role may be allowed to invoke.
type Capability string

const (
	CapBaleItem      Capability = "bale_item"
	CapValidateItem  Capability = "validate_item"
	CapDeleteAnyItem Capability = "delete_any_item"
	CapManageUsers   Capability = "manage_users"
)

// roleCapabilities is the single place authorization rules are declared.
// Roles absent from a capability's set (and unknown roles) fail closed.
var roleCapabilities = map[string]map[Capability]bool{
	RoleUser: {},
	RoleGestor: {
		CapBaleItem:     true,
		CapValidateItem: true,
	},
	RoleCoordinador: {},
	RoleAdmin: {
		CapDeleteAnyItem: true,
		CapManageUsers:   true,
	},
}

// RoleCan reports whether the given role holds the capability.
func RoleCan(role string, cap Capability) bool {
	return roleCapabilities[role][cap]
}
