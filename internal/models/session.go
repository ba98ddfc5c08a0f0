package models

import "time"

// AuthSession is the client-side record of a logged-in admin.
type AuthSession struct {
	Token        string    `json:"token"`
	TokenType    string    `json:"token_type"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresIn    int64     `json:"expires_in"` // seconds, as issued
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user,omitempty"`
	Remember     bool      `json:"remember"`
}

// Expired reports whether the access token has lapsed at now. Sessions
// without a known expiry never expire locally.
func (s AuthSession) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}

// AuthorizationHeader is the value sent in the Authorization header.
func (s AuthSession) AuthorizationHeader() string {
	if s.Token == "" {
		return ""
	}
	tokenType := s.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return tokenType + " " + s.Token
}
