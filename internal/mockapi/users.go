package mockapi

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/goatkit/novadmin/internal/models"
	"github.com/goatkit/novadmin/internal/permissions"
	"github.com/goatkit/novadmin/internal/validation"
)

//go:embed seed_users.yaml
var defaultSeed []byte

// Account errors.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

type seedFile struct {
	Users []seedUser `yaml:"users"`
}

type seedUser struct {
	models.User `yaml:",inline"`
	Password    string `yaml:"password"`
}

type account struct {
	user models.User
	hash []byte
}

// UserStore holds the mock backend's accounts in memory.
type UserStore struct {
	mu     sync.RWMutex
	byID   map[string]*account
	byName map[string]*account
	cost   int
}

// LoadUsers parses a YAML seed and hashes each password with bcrypt at cost.
// Accounts without explicit permissions get their role's defaults.
func LoadUsers(data []byte, cost int) (*UserStore, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse user seed: %w", err)
	}

	s := &UserStore{
		byID:   make(map[string]*account),
		byName: make(map[string]*account),
		cost:   cost,
	}
	for i, su := range seed.Users {
		u := su.User
		if !validation.IsValidUsername(u.Username) {
			return nil, fmt.Errorf("seed user %d: invalid username %q", i, u.Username)
		}
		if u.Email != "" && !validation.IsValidEmail(u.Email) {
			return nil, fmt.Errorf("seed user %s: invalid email %q", u.Username, u.Email)
		}
		role, ok := permissions.ParseRole(u.Role)
		if !ok {
			return nil, fmt.Errorf("seed user %s: unknown role %q", u.Username, u.Role)
		}
		u.Role = string(role)
		if u.ID == "" {
			return nil, fmt.Errorf("seed user %s: missing id", u.Username)
		}
		if u.Status == "" {
			u.Status = models.UserStatusActive
		}
		if len(u.Permissions) == 0 {
			for _, p := range permissions.DefaultPermissions(role) {
				u.Permissions = append(u.Permissions, string(p))
			}
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", u.Username, err)
		}
		acct := &account{user: u, hash: hash}
		for _, key := range loginKeys(u) {
			if _, dup := s.byName[key]; dup {
				return nil, fmt.Errorf("seed user %s: duplicate login %q", u.Username, key)
			}
			s.byName[key] = acct
		}
		if _, dup := s.byID[u.ID]; dup {
			return nil, fmt.Errorf("seed user %s: duplicate id %q", u.Username, u.ID)
		}
		s.byID[u.ID] = acct
	}
	return s, nil
}

func loginKeys(u models.User) []string {
	keys := []string{strings.ToLower(u.Username)}
	if u.Email != "" {
		keys = append(keys, strings.ToLower(u.Email))
	}
	return keys
}

// Authenticate checks a username or email and password. Disabled accounts
// fail with ErrAccountDisabled only after the password matched.
func (s *UserStore) Authenticate(identifier, password string, now time.Time) (*models.User, error) {
	key := strings.ToLower(strings.TrimSpace(identifier))

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.byName[key]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !acct.user.Active() {
		return nil, ErrAccountDisabled
	}
	at := now
	acct.user.LastLoginAt = &at
	return cloneUser(acct.user), nil
}

// Get returns a copy of the user with id.
func (s *UserStore) Get(id string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return cloneUser(acct.user), true
}

// Len returns the number of accounts.
func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// ChangePassword replaces the password of id after checking current against
// the stored hash and next against policy.
func (s *UserStore) ChangePassword(id, current, next string, policy validation.PasswordPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(current)); err != nil {
		return ErrWrongPassword
	}
	if verr := policy.Validate(next); verr != nil {
		return verr
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	acct.hash = hash
	return nil
}

func cloneUser(u models.User) *models.User {
	out := u
	out.Permissions = append([]string(nil), u.Permissions...)
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		out.LastLoginAt = &t
	}
	return &out
}
