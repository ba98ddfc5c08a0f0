package permissions

import (
	"regexp"
	"strings"
)

// Permission is a "<category>.<action>" grant.
type Permission string

// Categories.
const (
	CategoryUsers         = "users"
	CategoryNovels        = "novels"
	CategoryChapters      = "chapters"
	CategoryComments      = "comments"
	CategoryReviews       = "reviews"
	CategoryReports       = "reports"
	CategoryYuan          = "yuan"
	CategoryPoints        = "points"
	CategoryAnalytics     = "analytics"
	CategoryNotifications = "notifications"
	CategorySettings      = "settings"
	CategorySystem        = "system"
)

// Actions.
const (
	ActionCreate  = "create"
	ActionRead    = "read"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionPublish = "publish"
	ActionBan     = "ban"
	ActionSuspend = "suspend"
	ActionExport  = "export"
	ActionManage  = "manage"
)

var categories = []string{
	CategoryUsers, CategoryNovels, CategoryChapters, CategoryComments,
	CategoryReviews, CategoryReports, CategoryYuan, CategoryPoints,
	CategoryAnalytics, CategoryNotifications, CategorySettings, CategorySystem,
}

var actions = []string{
	ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionApprove, ActionReject,
	ActionPublish, ActionBan, ActionSuspend, ActionExport, ActionManage,
}

var (
	knownCategories = toSet(categories)
	knownActions    = toSet(actions)
	permissionRE    = regexp.MustCompile(`^\w+\.\w+$`)
)

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// New joins a category and an action.
func New(category, action string) Permission {
	return Permission(category + "." + action)
}

// Split returns the category and action. ok is false for malformed strings.
func (p Permission) Split() (category, action string, ok bool) {
	if !permissionRE.MatchString(string(p)) {
		return "", "", false
	}
	category, action, _ = strings.Cut(string(p), ".")
	return category, action, true
}

// Valid reports whether p is well formed and names a known category and action.
func Valid(p Permission) bool {
	category, action, ok := p.Split()
	if !ok {
		return false
	}
	_, okCategory := knownCategories[category]
	_, okAction := knownActions[action]
	return okCategory && okAction
}

// Categories returns the permission categories.
func Categories() []string {
	return append([]string(nil), categories...)
}

// Actions returns the permission actions.
func Actions() []string {
	return append([]string(nil), actions...)
}

// HasPermission reports whether granted allows p, either directly or through
// the category's manage grant. Malformed permissions never match.
func HasPermission(granted []Permission, p Permission) bool {
	return NewSet(granted...).Has(p)
}

// RoleHasPermission checks p against the role's default grants.
func RoleHasPermission(role Role, p Permission) bool {
	return HasPermission(defaultPermissions[role], p)
}

// Set is a resolved group of grants for repeated checks.
type Set map[Permission]struct{}

// NewSet builds a Set from grants.
func NewSet(granted ...Permission) Set {
	s := make(Set, len(granted))
	for _, p := range granted {
		s[p] = struct{}{}
	}
	return s
}

// SetForRole resolves the default grants of role.
func SetForRole(role Role) Set {
	return NewSet(defaultPermissions[role]...)
}

// Has reports whether the set allows p.
func (s Set) Has(p Permission) bool {
	category, action, ok := p.Split()
	if !ok {
		return false
	}
	if _, ok := s[p]; ok {
		return true
	}
	if action == ActionManage {
		return false
	}
	_, ok = s[New(category, ActionManage)]
	return ok
}
