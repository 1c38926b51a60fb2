package model

// Roles recognised by the authorisation checks.
const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleSeller = "seller"
)

// Principal is the authenticated caller as supplied by the upstream auth layer.
type Principal struct {
	ID   string
	Role string
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// HasRole reports whether the principal carries any of the given roles.
func (p Principal) HasRole(roles ...string) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
