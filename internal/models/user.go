package models

import "time"

// User account states.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusBanned    = "banned"
)

// User is an admin account as returned by the backend.
type User struct {
	ID          string     `json:"id" yaml:"id"`
	Username    string     `json:"username" yaml:"username"`
	Email       string     `json:"email" yaml:"email"`
	Nickname    string     `json:"nickname,omitempty" yaml:"nickname"`
	Role        string     `json:"role" yaml:"role"`
	Status      string     `json:"status" yaml:"status"`
	Avatar      string     `json:"avatar,omitempty" yaml:"avatar"`
	Permissions []string   `json:"permissions,omitempty" yaml:"permissions"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty" yaml:"-"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
}

// Active reports whether the account may log in.
func (u *User) Active() bool {
	return u != nil && (u.Status == "" || u.Status == UserStatusActive)
}

// Credentials is the login form.
type Credentials struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}
