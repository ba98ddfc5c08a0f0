// Package validation checks admin account fields. Checks report failure through
// their return value and never error.
package validation

import (
	"net/mail"
	"regexp"
	"strings"
)

var usernameRE = regexp.MustCompile(`^[A-Za-z0-9_.\-]{3,32}$`)

// IsValidUsername accepts 3 to 32 letters, digits, '_', '-' or '.'.
func IsValidUsername(s string) bool {
	return usernameRE.MatchString(s)
}

// IsValidEmail accepts a bare address with a dotted domain, e.g. a@b.co.
// Display names and angle brackets are rejected.
func IsValidEmail(s string) bool {
	if s == "" || strings.TrimSpace(s) != s || len(s) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

// IsLoginIdentifier accepts either a username or an email address.
func IsLoginIdentifier(s string) bool {
	return IsValidUsername(s) || IsValidEmail(s)
}
