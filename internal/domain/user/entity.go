package user

type Role string

const (
	RoleSystemSuperAdmin Role = "system_super_admin" // Platform operator - everything
	RoleSuperUser        Role = "super_user"         // Organisation-wide administration
	RoleAdmin            Role = "admin"              // HR administration
	RolePayroll          Role = "payroll"            // Payroll officer
	RoleManager          Role = "manager"            // Department manager or deputy
	RoleEmployee         Role = "employee"           // Regular employee
)

// AllRoles lists every role the service recognises
func AllRoles() []Role {
	return []Role{
		RoleSystemSuperAdmin,
		RoleSuperUser,
		RoleAdmin,
		RolePayroll,
		RoleManager,
		RoleEmployee,
	}
}

// ParseRole converts a token claim into a Role. Unknown values are rejected.
func ParseRole(s string) (Role, error) {
	for _, r := range AllRoles() {
		if string(r) == s {
			return r, nil
		}
	}
	return "", ErrUnknownRole
}

// Actor is the authenticated caller of a service operation
type Actor struct {
	ID   string
	Role Role
}

// Can reports whether the actor's role grants the permission
func (a Actor) Can(p Permission) bool {
	return HasPermission(a.Role, p)
}

// Require returns ErrInsufficientPermissions unless the actor holds p
func (a Actor) Require(p Permission) error {
	if !a.Can(p) {
		return ErrInsufficientPermissions
	}
	return nil
}
