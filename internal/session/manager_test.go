package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goatkit/novadmin/internal/constants"
	"github.com/goatkit/novadmin/internal/models"
)

type fakeClient struct {
	mu          sync.Mutex
	loginData   *LoginData
	loginErr    error
	logoutErr   error
	refreshData *RefreshData
	refreshErr  error

	logouts   []string
	refreshes []string
}

func (f *fakeClient) Login(_ context.Context, _ models.Credentials) (*LoginData, error) {
	return f.loginData, f.loginErr
}

func (f *fakeClient) Logout(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts = append(f.logouts, token)
	return f.logoutErr
}

func (f *fakeClient) Refresh(_ context.Context, refreshToken string) (*RefreshData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes = append(f.refreshes, refreshToken)
	return f.refreshData, f.refreshErr
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type timerLog struct {
	timers []*fakeTimer
}

func (l *timerLog) afterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{delay: d, fn: f}
	l.timers = append(l.timers, t)
	return t
}

func (l *timerLog) last() *fakeTimer {
	if len(l.timers) == 0 {
		return nil
	}
	return l.timers[len(l.timers)-1]
}

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

type harness struct {
	client    *fakeClient
	durable   *MemoryStorage
	ephemeral *MemoryStorage
	timers    *timerLog
	logs      *bytes.Buffer
	now       time.Time
	mgr       *Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		client: &fakeClient{
			loginData: &LoginData{
				User:         &models.User{ID: "u-1", Username: "admin", Role: "admin", Permissions: []string{"users.read"}},
				Token:        "access-1",
				RefreshToken: "refresh-1",
				TokenType:    "Bearer",
				ExpiresIn:    7200,
			},
			refreshData: &RefreshData{Token: "access-2", RefreshToken: "refresh-2", ExpiresIn: 3600},
		},
		durable:   NewMemoryStorage(),
		ephemeral: NewMemoryStorage(),
		timers:    &timerLog{},
		logs:      &bytes.Buffer{},
		now:       testNow,
	}
	h.mgr = NewManager(h.client, h.durable, h.ephemeral,
		WithLogger(log.New(h.logs, "", 0)),
		WithClock(func() time.Time { return h.now }),
		WithAfterFunc(h.timers.afterFunc),
	)
	t.Cleanup(h.mgr.Close)
	return h
}

func get(t *testing.T, s Storage, key string) (string, bool) {
	t.Helper()
	v, ok, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	return v, ok
}

func TestLoginRejectsBlankCredentials(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for _, creds := range []models.Credentials{
		{Username: "", Password: "secret"},
		{Username: "   ", Password: "secret"},
		{Username: "admin", Password: ""},
	} {
		_, err := h.mgr.Login(ctx, creds)
		assert.ErrorIs(t, err, ErrMissingCredentials)
	}
	assert.False(t, h.mgr.IsAuthenticated())
	assert.Empty(t, h.timers.timers)
}

func TestLoginEphemeral(t *testing.T) {
	h := newHarness(t)

	res, err := h.mgr.Login(context.Background(), models.Credentials{Username: " admin ", Password: "admin123"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "access-1", res.Data.Token)

	assert.True(t, h.mgr.IsAuthenticated())
	assert.Equal(t, "access-1", h.mgr.Token())
	require.NotNil(t, h.mgr.CurrentUser())
	assert.Equal(t, "admin", h.mgr.CurrentUser().Username)

	v, ok := get(t, h.ephemeral, constants.StorageKeyAdminToken)
	assert.True(t, ok)
	assert.Equal(t, "access-1", v)
	v, _ = get(t, h.ephemeral, constants.StorageKeyAccessToken)
	assert.Equal(t, "access-1", v)
	v, _ = get(t, h.ephemeral, constants.StorageKeyRefreshToken)
	assert.Equal(t, "refresh-1", v)
	v, _ = get(t, h.ephemeral, constants.StorageKeyExpiresIn)
	assert.Equal(t, "7200", v)
	v, _ = get(t, h.ephemeral, constants.StorageKeyTokenExpiresAt)
	assert.Equal(t, strconv.FormatInt(testNow.Add(2*time.Hour).UnixMilli(), 10), v)

	raw, ok := get(t, h.ephemeral, constants.StorageKeyAdminUser)
	require.True(t, ok)
	var u models.User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	assert.Equal(t, "u-1", u.ID)

	assert.Equal(t, 0, h.durable.Len())
	_, ok = get(t, h.durable, constants.StorageKeyRemember)
	assert.False(t, ok)
}

func TestLoginRememberUsesDurable(t *testing.T) {
	h := newHarness(t)

	_, err := h.mgr.Login(context.Background(), models.Credentials{Username: "admin", Password: "admin123", RememberMe: true})
	require.NoError(t, err)

	v, ok := get(t, h.durable, constants.StorageKeyAdminToken)
	assert.True(t, ok)
	assert.Equal(t, "access-1", v)
	v, ok = get(t, h.durable, constants.StorageKeyRemember)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
	assert.Equal(t, 0, h.ephemeral.Len())
}

func TestLoginSwitchingStorageClearsOldKeys(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.mgr.Login(ctx, models.Credentials{Username: "admin", Password: "x", RememberMe: true})
	require.NoError(t, err)
	_, err = h.mgr.Login(ctx, models.Credentials{Username: "admin", Password: "x"})
	require.NoError(t, err)

	assert.Equal(t, 0, h.durable.Len())
	_, ok := get(t, h.ephemeral, constants.StorageKeyAdminToken)
	assert.True(t, ok)
}

func TestLoginBackendErrors(t *testing.T) {
	h := newHarness(t)
	h.client.loginErr = &AuthError{Status: 401, Code: "auth:invalid_credentials", Message: "用户名或密码错误"}

	_, err := h.mgr.Login(context.Background(), models.Credentials{Username: "admin", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "用户名或密码错误", DisplayMessage(err))
	assert.False(t, h.mgr.IsAuthenticated())
}

func TestLoginMissingToken(t *testing.T) {
	h := newHarness(t)
	h.client.loginData = &LoginData{ExpiresIn: 60}

	_, err := h.mgr.Login(context.Background(), models.Credentials{Username: "admin", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.False(t, h.mgr.IsAuthenticated())
}

func TestLoginSchedulesRefresh(t *testing.T) {
	h := newHarness(t)

	_, err := h.mgr.Login(context.Background(), models.Credentials{Username: "admin", Password: "x"})
	require.NoError(t, err)

	timer := h.timers.last()
	require.NotNil(t, timer)
	assert.Equal(t, 7200*time.Second-5*time.Minute, timer.delay)
}

func TestRefreshDelay(t *testing.T) {
	lead := 5 * time.Minute
	assert.Equal(t, 115*time.Minute, RefreshDelay(2*time.Hour, lead))
	assert.Equal(t, 2*time.Minute, RefreshDelay(4*time.Minute, lead))
	assert.Equal(t, 150*time.Second, RefreshDelay(5*time.Minute, lead))
	assert.Equal(t, time.Duration(0), RefreshDelay(0, lead))
	assert.Equal(t, time.Duration(0), RefreshDelay(-time.Second, lead))
}

func TestScheduleRefreshReplacesTimer(t *testing.T) {
	h := newHarness(t)

	h.mgr.ScheduleRefresh(time.Hour)
	h.mgr.ScheduleRefresh(2 * time.Hour)

	require.Len(t, h.timers.timers, 2)
	assert.True(t, h.timers.timers[0].stopped)
	assert.False(t, h.timers.timers[1].stopped)
	assert.Equal(t, 115*time.Minute, h.timers.timers[1].delay)
}

func TestRefreshTokenSuccess(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.mgr.Login(ctx, models.Credentials{Username: "admin", Password: "x", RememberMe: true})
	require.NoError(t, err)

	h.now = h.now.Add(time.Hour)
	res, err := h.mgr.RefreshToken(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)

	assert.Equal(t, []string{"refresh-1"}, h.client.refreshes)
	assert.Equal(t, "access-2", h.mgr.Token())
	s, ok := h.mgr.Session()
	require.True(t, ok)
	assert.Equal(t, "refresh-2", s.RefreshToken)
	assert.Equal(t, h.now.Add(time.Hour), s.ExpiresAt)

	v, _ := get(t, h.durable, constants.StorageKeyAdminToken)
	assert.Equal(t, "access-2", v)
	v, _ = get(t, h.durable, constants.StorageKeyRefreshToken)
	assert.Equal(t, "refresh-2", v)
	assert.Equal(t, 0, h.ephemeral.Len())

	require.Len(t, h.timers.timers, 2)
	assert.True(t, h.timers.timers[0].stopped)
	assert.Equal(t, 55*time.Minute, h.timers.last().delay)
}

func TestRefreshTokenFailureDestroysSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.mgr.Login(ctx, models.Credentials{Username: "admin", Password: "x"})
	require.NoError(t, err)

	h.client.refreshErr = &AuthError{Status: 401, Code: "auth:invalid_refresh", Message: "refresh token expired"}
	_, err = h.mgr.RefreshToken(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRefreshFailed)

	assert.False(t, h.mgr.IsAuthenticated())
	assert.Nil(t, h.mgr.CurrentUser())
	assert.Equal(t, 0, h.ephemeral.Len())
	assert.True(t, h.timers.last().stopped)
}

func TestRefreshTokenWithoutRefreshToken(t *testing.T) {
	h := newHarness(t)
	h.client.loginData.RefreshToken = ""
	ctx := context.Background()
	_, err := h.mgr.Login(ctx, models.Credentials{Username: "admin", Password: "x"})
	require.NoError(t, err)

	_, err = h.mgr.RefreshToken(ctx)
	assert.ErrorIs(t, err, ErrNoRefreshToken)
	assert.ErrorIs(t, err, ErrRefreshFailed)
	assert.Empty(t, h.client.refreshes)
	assert.False(t, h.mgr.IsAuthenticated())
}

func TestRefreshTokenNotAuthenticated(t *testing.T) {
	h := newHarness(t)
	_, err := h.mgr.RefreshToken(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestTimerFiresRefresh(t *testing.T) {
	h := newHarness(t)
	_, err := h.mgr.Login(context.Background(), models.Credentials{Username: "admin", Password: "x"})
	require.NoError(t, err)

	h.timers.last().fn()
	assert.Equal(t, "access-2", h.mgr.Token())
}

func TestStaleTimerIsIgnored(t *testing.T) {
	h := newHarness(t)
	_, err := h.mgr.Login(context.Background(), models.Credentials{Username: "admin", Password: "x"})
	require.NoError(t, err)
	stale := h.timers.last()

	h.mgr.ScheduleRefresh(time.Hour)
	stale.fn()
	assert.Empty(t, h.client.refreshes)
	assert.Equal(t, "access-1", h.mgr.Token())
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.mgr.Login(ctx, models.Credentials{Username: "admin", Password: "x", RememberMe: true})
	require.NoError(t, err)

	res := h.mgr.Logout(ctx)
	assert.True(t, res.Success)
	assert.Equal(t, []string{"access-1"}, h.client.logouts)
	assert.False(t, h.mgr.IsAuthenticated())
	assert.Equal(t, 0, h.durable.Len())
	assert.Equal(t, 0, h.ephemeral.Len())
	assert.True(t, h.timers.last().stopped)
}

func TestLogoutRemoteFailureStillClears(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.mgr.Login(ctx, models.Credentials{Username: "admin", Password: "x"})
	require.NoError(t, err)

	h.client.logoutErr = errors.New("connection refused")
	res := h.mgr.Logout(ctx)
	assert.True(t, res.Success)
	assert.False(t, h.mgr.IsAuthenticated())
	assert.Equal(t, 0, h.ephemeral.Len())
	assert.Contains(t, h.logs.String(), "Warning: remote logout failed")
}

func TestLogoutWithoutSessionSkipsRemote(t *testing.T) {
	h := newHarness(t)
	res := h.mgr.Logout(context.Background())
	assert.True(t, res.Success)
	assert.Empty(t, h.client.logouts)
}

func TestIsAuthenticatedExpires(t *testing.T) {
	h := newHarness(t)
	_, err := h.mgr.Login(context.Background(), models.Credentials{Username: "admin", Password: "x"})
	require.NoError(t, err)

	h.now = h.now.Add(2*time.Hour + time.Second)
	assert.False(t, h.mgr.IsAuthenticated())
	assert.Empty(t, h.mgr.Token())
}

func TestCurrentUserIsCopy(t *testing.T) {
	h := newHarness(t)
	_, err := h.mgr.Login(context.Background(), models.Credentials{Username: "admin", Password: "x"})
	require.NoError(t, err)

	u := h.mgr.CurrentUser()
	u.Username = "mallory"
	u.Permissions[0] = "system.manage"
	assert.Equal(t, "admin", h.mgr.CurrentUser().Username)
	assert.Equal(t, "users.read", h.mgr.CurrentUser().Permissions[0])
}

func TestRestore(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.mgr.Login(ctx, models.Credentials{Username: "admin", Password: "x", RememberMe: true})
	require.NoError(t, err)

	h.now = h.now.Add(time.Hour)
	timers := &timerLog{}
	restored := NewManager(h.client, h.durable, NewMemoryStorage(),
		WithLogger(log.New(h.logs, "", 0)),
		WithClock(func() time.Time { return h.now }),
		WithAfterFunc(timers.afterFunc),
	)
	defer restored.Close()

	require.True(t, restored.Restore(ctx))
	assert.True(t, restored.IsAuthenticated())
	assert.Equal(t, "access-1", restored.Token())
	assert.Equal(t, "admin", restored.CurrentUser().Username)
	s, _ := restored.Session()
	assert.True(t, s.Remember)
	assert.Equal(t, "refresh-1", s.RefreshToken)
	require.NotNil(t, timers.last())
	assert.Equal(t, 55*time.Minute, timers.last().delay)
}

func TestRestoreDropsExpired(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.mgr.Login(ctx, models.Credentials{Username: "admin", Password: "x", RememberMe: true})
	require.NoError(t, err)

	h.now = h.now.Add(3 * time.Hour)
	restored := NewManager(h.client, h.durable, NewMemoryStorage(),
		WithLogger(log.New(h.logs, "", 0)),
		WithClock(func() time.Time { return h.now }),
		WithAfterFunc((&timerLog{}).afterFunc),
	)
	assert.False(t, restored.Restore(ctx))
	_, ok := get(t, h.durable, constants.StorageKeyAdminToken)
	assert.False(t, ok)
}

func TestRestoreEmpty(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.mgr.Restore(context.Background()))
}

// blockingStorage parks the first Set after arm until release is closed.
type blockingStorage struct {
	*MemoryStorage
	mu      sync.Mutex
	armed   bool
	entered chan struct{}
	release chan struct{}
}

func newBlockingStorage() *blockingStorage {
	return &blockingStorage{
		MemoryStorage: NewMemoryStorage(),
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
}

func (s *blockingStorage) arm() {
	s.mu.Lock()
	s.armed = true
	s.mu.Unlock()
}

func (s *blockingStorage) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	block := s.armed
	s.armed = false
	s.mu.Unlock()
	if block {
		close(s.entered)
		<-s.release
	}
	return s.MemoryStorage.Set(ctx, key, value)
}

func TestLogoutDuringRefreshPersistClearsStorage(t *testing.T) {
	h := newHarness(t)
	durable := newBlockingStorage()
	mgr := NewManager(h.client, durable, h.ephemeral,
		WithLogger(log.New(h.logs, "", 0)),
		WithClock(func() time.Time { return h.now }),
		WithAfterFunc(h.timers.afterFunc),
	)
	defer mgr.Close()
	ctx := context.Background()

	_, err := mgr.Login(ctx, models.Credentials{Username: "admin", Password: "x", RememberMe: true})
	require.NoError(t, err)

	durable.arm()
	refreshed := make(chan error, 1)
	go func() {
		_, err := mgr.RefreshToken(ctx)
		refreshed <- err
	}()
	<-durable.entered

	loggedOut := make(chan *LogoutResult, 1)
	go func() { loggedOut <- mgr.Logout(ctx) }()
	require.Eventually(t, func() bool {
		_, ok := mgr.Session()
		return !ok
	}, time.Second, time.Millisecond)

	close(durable.release)
	require.NoError(t, <-refreshed)
	assert.True(t, (<-loggedOut).Success)

	assert.False(t, mgr.IsAuthenticated())
	_, ok := get(t, durable, constants.StorageKeyAdminToken)
	assert.False(t, ok)
	_, ok = get(t, durable, constants.StorageKeyRemember)
	assert.False(t, ok)

	fresh := NewManager(h.client, durable, NewMemoryStorage(),
		WithLogger(log.New(h.logs, "", 0)),
		WithClock(func() time.Time { return h.now }),
		WithAfterFunc((&timerLog{}).afterFunc),
	)
	defer fresh.Close()
	assert.False(t, fresh.Restore(ctx))
}

func TestLogoutBeforeRefreshPersistSkipsWrite(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.mgr.Login(ctx, models.Credentials{Username: "admin", Password: "x", RememberMe: true})
	require.NoError(t, err)
	s, ok := h.mgr.Session()
	require.True(t, ok)

	h.mgr.Logout(ctx)
	assert.False(t, h.mgr.persistCurrent(ctx, &s, false))
	_, ok = get(t, h.durable, constants.StorageKeyAdminToken)
	assert.False(t, ok)
}
