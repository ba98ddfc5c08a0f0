package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goatkit/novadmin/internal/constants"
	"github.com/goatkit/novadmin/internal/models"
)

func backend(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL + "/")
}

func TestHTTPClientLogin(t *testing.T) {
	c := backend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, constants.PathLogin, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var creds models.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "admin", creds.Username)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"t-1","refresh_token":"r-1","token_type":"Bearer","expires_in":7200,"user":{"id":"u-1","username":"admin","role":"admin"}}}`))
	})

	data, err := c.Login(context.Background(), models.Credentials{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "t-1", data.Token)
	assert.Equal(t, "r-1", data.RefreshToken)
	assert.Equal(t, int64(7200), data.ExpiresIn)
	require.NotNil(t, data.User)
	assert.Equal(t, "admin", data.User.Username)
}

func TestHTTPClientLoginRejected(t *testing.T) {
	c := backend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"auth:invalid_credentials","message":"用户名或密码错误"}}`))
	})

	_, err := c.Login(context.Background(), models.Credentials{Username: "admin", Password: "nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusUnauthorized, ae.Status)
	assert.Equal(t, "用户名或密码错误", DisplayMessage(err))
}

func TestHTTPClientNonJSONError(t *testing.T) {
	c := backend(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.Refresh(context.Background(), "r-1")
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadGateway, ae.Status)
	assert.Equal(t, "Bad Gateway", ae.Message)
}

func TestHTTPClientMissingData(t *testing.T) {
	c := backend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	_, err := c.Login(context.Background(), models.Credentials{Username: "a", Password: "b"})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestHTTPClientLogoutSendsBearer(t *testing.T) {
	var auth string
	c := backend(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"success":true,"message":"logged out"}`))
	})

	require.NoError(t, c.Logout(context.Background(), "t-1"))
	assert.Equal(t, "Bearer t-1", auth)
}

func TestHTTPClientRefreshBody(t *testing.T) {
	c := backend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, constants.PathRefresh, r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "r-1", body["refresh_token"])
		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"t-2","expires_in":60}}`))
	})

	data, err := c.Refresh(context.Background(), "r-1")
	require.NoError(t, err)
	assert.Equal(t, "t-2", data.Token)
	assert.Equal(t, int64(60), data.ExpiresIn)
}
