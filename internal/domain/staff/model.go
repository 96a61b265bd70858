package staff

import "time"

// Role define los roles del registro municipal.
// @Enum owner, seguimiento, admin, super_admin
type Role string

const (
	RoleOwner       Role = "owner"
	RoleSeguimiento Role = "seguimiento"
	RoleAdmin       Role = "admin"
	RoleSuperAdmin  Role = "super_admin"
)

// ParseRole normaliza un role token externo. Devuelve false si no es un rol conocido.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOwner, RoleSeguimiento, RoleAdmin, RoleSuperAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// IsAdmin indica si el rol puede administrar asignaciones y personal.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Identity representa a una persona del personal municipal.
type Identity struct {
	ID           string
	Role         Role
	EmployeeCode string
	Active       bool
	Zone         string

	CreatedAt time.Time
	UpdatedAt time.Time
}
