// Package permissions holds the admin role hierarchy and the permission lists
// each role is granted by default.
package permissions

import "strings"

// Role is an admin account role.
type Role string

// Roles from least to most authority.
const (
	RoleUser       Role = "user"
	RoleAuthor     Role = "author"
	RoleEditor     Role = "editor"
	RoleModerator  Role = "moderator"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

var roleLevels = map[Role]int{
	RoleUser:       1,
	RoleAuthor:     2,
	RoleEditor:     3,
	RoleModerator:  4,
	RoleAdmin:      5,
	RoleSuperAdmin: 6,
}

var roleOrder = []Role{RoleUser, RoleAuthor, RoleEditor, RoleModerator, RoleAdmin, RoleSuperAdmin}

// Roles returns every role ordered by level.
func Roles() []Role {
	out := make([]Role, len(roleOrder))
	copy(out, roleOrder)
	return out
}

// Level returns the hierarchy level of role, 0 when unknown.
func Level(role Role) int {
	return roleLevels[role]
}

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// ParseRole reads a role name case-insensitively. Hyphenated and run-together
// spellings of super_admin are accepted.
func ParseRole(s string) (Role, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "super-admin", "superadmin":
		name = string(RoleSuperAdmin)
	}
	r := Role(name)
	if !r.Valid() {
		return "", false
	}
	return r, true
}

// IsAtLeast reports whether role ranks at or above min. Unknown roles never do.
func IsAtLeast(role, min Role) bool {
	have, want := Level(role), Level(min)
	if have == 0 || want == 0 {
		return false
	}
	return have >= want
}

// CanAssign reports whether actor may grant target to another account. Roles
// can hand out only roles below their own; super_admin can hand out any.
func CanAssign(actor, target Role) bool {
	if !actor.Valid() || !target.Valid() {
		return false
	}
	if actor == RoleSuperAdmin {
		return true
	}
	return Level(target) < Level(actor)
}
