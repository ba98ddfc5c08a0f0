// Package session keeps the dashboard's admin login: it talks to the auth
// backend, persists the tokens and refreshes them before they expire.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goatkit/novadmin/internal/constants"
	"github.com/goatkit/novadmin/internal/convert"
	"github.com/goatkit/novadmin/internal/models"
)

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Success bool       `json:"success"`
	Data    *LoginData `json:"data"`
}

// LogoutResult is returned by Logout.
type LogoutResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// RefreshResult is returned by a successful RefreshToken.
type RefreshResult struct {
	Success bool         `json:"success"`
	Data    *RefreshData `json:"data"`
}

// Timer is the part of *time.Timer the manager uses.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func stdAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Manager owns the current admin session. It is safe for concurrent use.
type Manager struct {
	client         Client
	durable        Storage
	ephemeral      Storage
	logger         *log.Logger
	now            func() time.Time
	afterFunc      AfterFunc
	refreshLead    time.Duration
	refreshTimeout time.Duration

	mu      sync.Mutex
	session *models.AuthSession
	timer   Timer
	// gen changes whenever the session or its timer is replaced, so stale
	// refresh callbacks can tell they are stale.
	gen uint64

	// storeMu serializes storage writes. Taken before mu, never while
	// holding it.
	storeMu sync.Mutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets a custom logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithAfterFunc replaces time.AfterFunc for the refresh timer.
func WithAfterFunc(f AfterFunc) Option {
	return func(m *Manager) {
		if f != nil {
			m.afterFunc = f
		}
	}
}

// WithRefreshLead sets how long before expiry the token is refreshed.
func WithRefreshLead(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.refreshLead = d
		}
	}
}

// WithRefreshTimeout bounds a background refresh call.
func WithRefreshTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.refreshTimeout = d
		}
	}
}

// NewManager creates a manager. Remembered sessions go to durable, the rest to
// ephemeral.
func NewManager(client Client, durable, ephemeral Storage, opts ...Option) *Manager {
	m := &Manager{
		client:         client,
		durable:        durable,
		ephemeral:      ephemeral,
		logger:         log.New(log.Writer(), "[SESSION] ", log.LstdFlags),
		now:            time.Now,
		afterFunc:      stdAfterFunc,
		refreshLead:    time.Duration(constants.RefreshLeadTime) * time.Second,
		refreshTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.durable == nil {
		m.durable = NewMemoryStorage()
	}
	if m.ephemeral == nil {
		m.ephemeral = NewMemoryStorage()
	}
	return m
}

// Login authenticates with the backend and stores the new session. Blank
// credentials fail locally with ErrMissingCredentials.
func (m *Manager) Login(ctx context.Context, creds models.Credentials) (*LoginResult, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		return nil, ErrMissingCredentials
	}

	data, err := m.client.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if data == nil || data.Token == "" {
		return nil, fmt.Errorf("login: %w: missing token", ErrInvalidResponse)
	}

	tokenType := data.TokenType
	if tokenType == "" {
		tokenType = constants.TokenTypeBearer
	}
	s := &models.AuthSession{
		Token:        data.Token,
		TokenType:    tokenType,
		RefreshToken: data.RefreshToken,
		ExpiresIn:    data.ExpiresIn,
		User:         data.User,
		Remember:     creds.RememberMe,
	}
	if data.ExpiresIn > 0 {
		s.ExpiresAt = m.now().Add(time.Duration(data.ExpiresIn) * time.Second)
	}

	m.mu.Lock()
	m.session = s
	m.scheduleLocked(time.Duration(data.ExpiresIn) * time.Second)
	m.mu.Unlock()

	m.persistCurrent(ctx, s, true)

	name := ""
	if data.User != nil {
		name = data.User.Username
	}
	m.logger.Printf("Logged in as %q (remember=%t)", name, creds.RememberMe)
	return &LoginResult{Success: true, Data: data}, nil
}

// Logout revokes the token remotely when there is one and always clears the
// local session. A failed remote call is only logged.
func (m *Manager) Logout(ctx context.Context) *LogoutResult {
	m.mu.Lock()
	token := ""
	if m.session != nil {
		token = m.session.Token
	}
	m.session = nil
	m.stopTimerLocked()
	m.mu.Unlock()

	if token != "" {
		if err := m.client.Logout(ctx, token); err != nil {
			m.logger.Printf("Warning: remote logout failed: %v", err)
		}
	}
	m.storeMu.Lock()
	m.clearStorage(ctx)
	m.storeMu.Unlock()
	return &LogoutResult{Success: true, Message: "logged out"}
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (m *Manager) CurrentUser() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil || m.session.User == nil {
		return nil
	}
	u := *m.session.User
	u.Permissions = append([]string(nil), m.session.User.Permissions...)
	return &u
}

// IsAuthenticated reports whether a token is held and has not expired.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validLocked()
}

// Token returns the access token while authenticated, otherwise "".
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.validLocked() {
		return ""
	}
	return m.session.Token
}

// Session returns a copy of the current session.
func (m *Manager) Session() (models.AuthSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return models.AuthSession{}, false
	}
	return *m.session, true
}

func (m *Manager) validLocked() bool {
	return m.session != nil && m.session.Token != "" && !m.session.Expired(m.now())
}

// RefreshToken swaps the stored refresh token for a new access token. Any
// failure ends the session, since it cannot be recovered without a new login.
func (m *Manager) RefreshToken(ctx context.Context) (*RefreshResult, error) {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	refreshToken := m.session.RefreshToken
	gen := m.gen
	m.mu.Unlock()

	if refreshToken == "" {
		m.destroy(ctx, gen)
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, ErrNoRefreshToken)
	}

	data, err := m.client.Refresh(ctx, refreshToken)
	if err == nil && (data == nil || data.Token == "") {
		err = fmt.Errorf("%w: missing token", ErrInvalidResponse)
	}
	if err != nil {
		m.logger.Printf("Token refresh failed, ending session: %v", err)
		m.destroy(ctx, gen)
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	m.mu.Lock()
	if m.session == nil || m.gen != gen {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: session changed during refresh", ErrRefreshFailed)
	}
	updated := *m.session
	updated.Token = data.Token
	if data.RefreshToken != "" {
		updated.RefreshToken = data.RefreshToken
	}
	if data.TokenType != "" {
		updated.TokenType = data.TokenType
	}
	updated.ExpiresIn = data.ExpiresIn
	updated.ExpiresAt = time.Time{}
	if data.ExpiresIn > 0 {
		updated.ExpiresAt = m.now().Add(time.Duration(data.ExpiresIn) * time.Second)
	}
	m.session = &updated
	m.scheduleLocked(time.Duration(data.ExpiresIn) * time.Second)
	m.mu.Unlock()

	m.persistCurrent(ctx, &updated, false)
	return &RefreshResult{Success: true, Data: data}, nil
}

// ScheduleRefresh arranges a single refresh shortly before a token that
// expires in expiresIn. Any previously scheduled refresh is cancelled.
func (m *Manager) ScheduleRefresh(expiresIn time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduleLocked(expiresIn)
}

// RefreshDelay is when a refresh fires for a token expiring in expiresIn:
// lead before expiry, or halfway when the token is shorter than the lead.
func RefreshDelay(expiresIn, lead time.Duration) time.Duration {
	if expiresIn <= 0 {
		return 0
	}
	delay := expiresIn - lead
	if delay <= 0 {
		delay = expiresIn / 2
	}
	return delay
}

func (m *Manager) scheduleLocked(expiresIn time.Duration) {
	m.stopTimerLocked()
	delay := RefreshDelay(expiresIn, m.refreshLead)
	if delay <= 0 {
		return
	}
	gen := m.gen
	m.timer = m.afterFunc(delay, func() { m.onTimer(gen) })
}

func (m *Manager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
}

func (m *Manager) onTimer(gen uint64) {
	m.mu.Lock()
	stale := gen != m.gen || m.session == nil
	m.mu.Unlock()
	if stale {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.refreshTimeout)
	defer cancel()
	if _, err := m.RefreshToken(ctx); err != nil {
		m.logger.Printf("Scheduled refresh failed: %v", err)
	}
}

// destroy drops the session if it is still the one identified by gen.
func (m *Manager) destroy(ctx context.Context, gen uint64) {
	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		return
	}
	m.session = nil
	m.stopTimerLocked()
	m.mu.Unlock()

	m.storeMu.Lock()
	m.clearStorage(ctx)
	m.storeMu.Unlock()
}

// Restore reloads a persisted session, trying durable storage first. Expired
// sessions are removed. It reports whether a usable session was found.
func (m *Manager) Restore(ctx context.Context) bool {
	for _, st := range []struct {
		storage  Storage
		remember bool
	}{{m.durable, true}, {m.ephemeral, false}} {
		s, err := m.load(ctx, st.storage)
		if err != nil {
			m.logger.Printf("Warning: failed to read stored session: %v", err)
			continue
		}
		if s == nil {
			continue
		}
		now := m.now()
		if s.Expired(now) {
			m.logger.Printf("Stored session expired at %s, discarding", s.ExpiresAt.Format(time.RFC3339))
			m.storeMu.Lock()
			m.clear(ctx, st.storage)
			m.storeMu.Unlock()
			continue
		}
		s.Remember = st.remember

		var remaining time.Duration
		if !s.ExpiresAt.IsZero() {
			remaining = s.ExpiresAt.Sub(now)
		}
		m.mu.Lock()
		m.session = s
		m.scheduleLocked(remaining)
		m.mu.Unlock()
		return true
	}
	return false
}

// Close cancels any pending refresh.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
}

func (m *Manager) storageFor(s *models.AuthSession) Storage {
	if s.Remember {
		return m.durable
	}
	return m.ephemeral
}

// persistCurrent writes s only while it is still the live session. A logout
// or a newer session that got there first wins, and a logout that comes later
// waits for the write and then clears it. With replace set, storage is wiped
// before writing.
func (m *Manager) persistCurrent(ctx context.Context, s *models.AuthSession, replace bool) bool {
	m.storeMu.Lock()
	defer m.storeMu.Unlock()

	m.mu.Lock()
	current := m.session == s
	m.mu.Unlock()
	if !current {
		return false
	}
	if replace {
		m.clearStorage(ctx)
	}
	m.persist(ctx, s)
	return true
}

func (m *Manager) persist(ctx context.Context, s *models.AuthSession) {
	st := m.storageFor(s)
	values := map[string]string{
		constants.StorageKeyAdminToken:  s.Token,
		constants.StorageKeyAccessToken: s.Token,
		constants.StorageKeyTokenType:   s.TokenType,
		constants.StorageKeyExpiresIn:   strconv.FormatInt(s.ExpiresIn, 10),
	}
	if s.RefreshToken != "" {
		values[constants.StorageKeyRefreshToken] = s.RefreshToken
	}
	if !s.ExpiresAt.IsZero() {
		values[constants.StorageKeyTokenExpiresAt] = strconv.FormatInt(s.ExpiresAt.UnixMilli(), 10)
	}
	if s.User != nil {
		user, err := json.Marshal(s.User)
		if err != nil {
			m.logger.Printf("Warning: failed to encode user: %v", err)
		} else {
			values[constants.StorageKeyAdminUser] = string(user)
		}
	}

	for _, key := range constants.SessionStorageKeys {
		v, ok := values[key]
		if !ok {
			continue
		}
		if err := st.Set(ctx, key, v); err != nil {
			m.logger.Printf("Warning: failed to persist %s: %v", key, err)
		}
	}
	if s.Remember {
		if err := m.durable.Set(ctx, constants.StorageKeyRemember, "true"); err != nil {
			m.logger.Printf("Warning: failed to persist %s: %v", constants.StorageKeyRemember, err)
		}
	}
}

func (m *Manager) load(ctx context.Context, st Storage) (*models.AuthSession, error) {
	token, ok, err := st.Get(ctx, constants.StorageKeyAdminToken)
	if err != nil {
		return nil, err
	}
	if !ok || token == "" {
		token, ok, err = st.Get(ctx, constants.StorageKeyAccessToken)
		if err != nil {
			return nil, err
		}
		if !ok || token == "" {
			return nil, nil
		}
	}

	s := &models.AuthSession{Token: token, TokenType: constants.TokenTypeBearer}
	get := func(key string) string {
		v, _, getErr := st.Get(ctx, key)
		if getErr != nil && err == nil {
			err = getErr
		}
		return v
	}
	if v := get(constants.StorageKeyTokenType); v != "" {
		s.TokenType = v
	}
	s.RefreshToken = get(constants.StorageKeyRefreshToken)
	s.ExpiresIn = convert.ToInt64(get(constants.StorageKeyExpiresIn), 0)
	if ms := convert.ToInt64(get(constants.StorageKeyTokenExpiresAt), 0); ms > 0 {
		s.ExpiresAt = time.UnixMilli(ms)
	}
	if v := get(constants.StorageKeyAdminUser); v != "" {
		var u models.User
		if jerr := json.Unmarshal([]byte(v), &u); jerr != nil {
			m.logger.Printf("Warning: ignoring unreadable stored user: %v", jerr)
		} else {
			s.User = &u
		}
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (m *Manager) clearStorage(ctx context.Context) {
	m.clear(ctx, m.durable)
	m.clear(ctx, m.ephemeral)
	if err := m.durable.Remove(ctx, constants.StorageKeyRemember); err != nil {
		m.logger.Printf("Warning: failed to remove %s: %v", constants.StorageKeyRemember, err)
	}
}

func (m *Manager) clear(ctx context.Context, st Storage) {
	for _, key := range constants.SessionStorageKeys {
		if err := st.Remove(ctx, key); err != nil {
			m.logger.Printf("Warning: failed to remove %s: %v", key, err)
		}
	}
}
