package permissions

var defaultPermissions = map[Role][]Permission{
	RoleUser: {
		"novels.read",
		"chapters.read",
		"comments.create",
		"comments.read",
		"reviews.create",
		"reviews.read",
		"reports.create",
	},
	RoleAuthor: {
		"novels.create",
		"novels.read",
		"novels.update",
		"chapters.create",
		"chapters.read",
		"chapters.update",
		"chapters.delete",
		"chapters.publish",
		"comments.read",
		"reviews.read",
		"analytics.read",
	},
	RoleEditor: {
		"novels.read",
		"novels.update",
		"novels.approve",
		"novels.reject",
		"chapters.read",
		"chapters.update",
		"chapters.approve",
		"chapters.reject",
		"chapters.publish",
		"comments.read",
		"reviews.read",
		"analytics.read",
		"analytics.export",
	},
	RoleModerator: {
		"users.read",
		"users.suspend",
		"novels.read",
		"chapters.read",
		"comments.read",
		"comments.update",
		"comments.delete",
		"comments.approve",
		"reviews.read",
		"reviews.approve",
		"reviews.reject",
		"reviews.delete",
		"reports.read",
		"reports.update",
		"analytics.read",
	},
	RoleAdmin: {
		"users.manage",
		"users.ban",
		"novels.manage",
		"chapters.manage",
		"comments.manage",
		"reviews.manage",
		"reports.manage",
		"yuan.manage",
		"points.manage",
		"analytics.manage",
		"notifications.manage",
		"settings.read",
		"settings.update",
		"system.read",
	},
	RoleSuperAdmin: {
		"users.manage",
		"novels.manage",
		"chapters.manage",
		"comments.manage",
		"reviews.manage",
		"reports.manage",
		"yuan.manage",
		"points.manage",
		"analytics.manage",
		"notifications.manage",
		"settings.manage",
		"system.manage",
	},
}

// DefaultPermissions returns a copy of the grants authored for role, nil when
// the role is unknown.
func DefaultPermissions(role Role) []Permission {
	perms, ok := defaultPermissions[role]
	if !ok {
		return nil
	}
	return append([]Permission(nil), perms...)
}
