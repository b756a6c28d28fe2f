package users

import "fmt"

// UserRole is the closed set of access roles a user account can hold.
// Stored as text; compared exactly (no case folding).
type UserRole string

const (
	RoleAnonymous     UserRole = "ANONYMOUS"
	RoleAuthenticated UserRole = "AUTHENTICATED"
	RoleModerator     UserRole = "MODERATOR"
	RoleAdmin         UserRole = "ADMIN"
)

// Roles lists every recognized role, in privilege order.
var Roles = []UserRole{RoleAnonymous, RoleAuthenticated, RoleModerator, RoleAdmin}

// ParseRole converts a raw string into a UserRole.
// Unknown values return an error naming the accepted set.
func ParseRole(s string) (UserRole, error) {
	r := UserRole(s)
	if !r.Valid() {
		return "", fmt.Errorf("unrecognized role %q: must be one of ANONYMOUS, AUTHENTICATED, MODERATOR, ADMIN", s)
	}
	return r, nil
}

// Valid reports whether r is a member of the recognized role set.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAnonymous, RoleAuthenticated, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Staff reports whether the role grants moderation access.
func (r UserRole) Staff() bool {
	return r == RoleModerator || r == RoleAdmin
}

func (r UserRole) String() string { return string(r) }
