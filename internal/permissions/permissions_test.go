package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	roles := Roles()
	require.Len(t, roles, 6)

	prev := 0
	for _, r := range roles {
		lvl := Level(r)
		assert.Greater(t, lvl, prev, "role %s", r)
		prev = lvl
	}
	assert.Equal(t, 1, Level(RoleUser))
	assert.Equal(t, 6, Level(RoleSuperAdmin))
	assert.Equal(t, 0, Level("intern"))
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"admin", RoleAdmin, true},
		{" Editor ", RoleEditor, true},
		{"SUPER_ADMIN", RoleSuperAdmin, true},
		{"super-admin", RoleSuperAdmin, true},
		{"superadmin", RoleSuperAdmin, true},
		{"root", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRole(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAtLeast(t *testing.T) {
	assert.True(t, IsAtLeast(RoleAdmin, RoleEditor))
	assert.True(t, IsAtLeast(RoleEditor, RoleEditor))
	assert.False(t, IsAtLeast(RoleAuthor, RoleEditor))
	assert.False(t, IsAtLeast("ghost", RoleUser))
	assert.False(t, IsAtLeast(RoleSuperAdmin, "ghost"))
}

func TestCanAssign(t *testing.T) {
	assert.True(t, CanAssign(RoleAdmin, RoleModerator))
	assert.False(t, CanAssign(RoleAdmin, RoleAdmin))
	assert.False(t, CanAssign(RoleAdmin, RoleSuperAdmin))
	assert.True(t, CanAssign(RoleSuperAdmin, RoleSuperAdmin))
	assert.False(t, CanAssign(RoleUser, RoleUser))
	assert.False(t, CanAssign("ghost", RoleUser))
	assert.False(t, CanAssign(RoleAdmin, "ghost"))
}

func TestValid(t *testing.T) {
	tests := map[Permission]bool{
		"novels.read":      true,
		"system.manage":    true,
		"novels.fly":       false,
		"planets.read":     false,
		"novels":           false,
		"novels.read.all":  false,
		".read":            false,
		"novels.":          false,
		"novels read":      false,
		"":                 false,
		"comments.approve": true,
	}
	for p, want := range tests {
		assert.Equal(t, want, Valid(p), "permission %q", p)
	}
}

func TestHasPermission(t *testing.T) {
	granted := []Permission{"novels.read", "comments.manage"}

	assert.True(t, HasPermission(granted, "novels.read"))
	assert.False(t, HasPermission(granted, "novels.update"))
	assert.True(t, HasPermission(granted, "comments.delete"), "manage implies every action")
	assert.True(t, HasPermission(granted, "comments.manage"))
	assert.False(t, HasPermission(granted, "chapters.manage"))
	assert.False(t, HasPermission(granted, "comments"), "malformed never matches")
	assert.False(t, HasPermission([]Permission{"bad perm"}, "bad perm"))
	assert.False(t, HasPermission(nil, "novels.read"))
}

func TestRoleHasPermission(t *testing.T) {
	assert.True(t, RoleHasPermission(RoleUser, "comments.create"))
	assert.False(t, RoleHasPermission(RoleUser, "novels.update"))
	assert.True(t, RoleHasPermission(RoleAuthor, "chapters.publish"))
	assert.True(t, RoleHasPermission(RoleModerator, "users.suspend"))
	assert.False(t, RoleHasPermission(RoleModerator, "users.ban"))
	assert.True(t, RoleHasPermission(RoleAdmin, "users.ban"))
	assert.True(t, RoleHasPermission(RoleAdmin, "yuan.update"))
	assert.False(t, RoleHasPermission(RoleAdmin, "system.update"))
	assert.True(t, RoleHasPermission(RoleSuperAdmin, "system.update"))
	assert.False(t, RoleHasPermission("ghost", "novels.read"))
}

func TestDefaultPermissionTables(t *testing.T) {
	for _, role := range Roles() {
		perms := DefaultPermissions(role)
		require.NotEmpty(t, perms, "role %s", role)

		seen := map[Permission]bool{}
		for _, p := range perms {
			assert.True(t, Valid(p), "role %s has invalid %q", role, p)
			assert.False(t, seen[p], "role %s lists %q twice", role, p)
			seen[p] = true

			_, action, _ := p.Split()
			if action == ActionManage {
				assert.True(t, IsAtLeast(role, RoleAdmin), "role %s holds %q", role, p)
			}
		}
	}

	assert.Nil(t, DefaultPermissions("ghost"))
}

func TestSuperAdminManagesEveryCategory(t *testing.T) {
	set := SetForRole(RoleSuperAdmin)
	for _, category := range Categories() {
		for _, action := range Actions() {
			assert.True(t, set.Has(New(category, action)), "%s.%s", category, action)
		}
	}
}

func TestDefaultPermissionsReturnsCopy(t *testing.T) {
	perms := DefaultPermissions(RoleUser)
	perms[0] = "system.manage"

	assert.False(t, RoleHasPermission(RoleUser, "system.manage"))
}
