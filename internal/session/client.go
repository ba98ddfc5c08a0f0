package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goatkit/novadmin/internal/constants"
	"github.com/goatkit/novadmin/internal/models"
)

// LoginData is what the backend returns for a successful login.
type LoginData struct {
	User         *models.User `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	TokenType    string       `json:"token_type,omitempty"`
	ExpiresIn    int64        `json:"expires_in"`
}

// RefreshData is what the backend returns for a successful refresh.
type RefreshData struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Client is the auth backend.
type Client interface {
	Login(ctx context.Context, creds models.Credentials) (*LoginData, error)
	Logout(ctx context.Context, token string) error
	Refresh(ctx context.Context, refreshToken string) (*RefreshData, error)
}

// HTTPClient calls the admin backend's JSON auth endpoints.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(h *HTTPClient) {
		if c != nil {
			h.http = c
		}
	}
}

// NewHTTPClient creates a client for the backend at baseURL.
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	h := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Login posts credentials to the login endpoint.
func (h *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*LoginData, error) {
	var data LoginData
	if err := h.post(ctx, constants.PathLogin, "", creds, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Logout revokes token on the backend.
func (h *HTTPClient) Logout(ctx context.Context, token string) error {
	return h.post(ctx, constants.PathLogout, token, nil, nil)
}

// Refresh exchanges refreshToken for a new access token.
func (h *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*RefreshData, error) {
	var data RefreshData
	body := map[string]string{"refresh_token": refreshToken}
	if err := h.post(ctx, constants.PathRefresh, "", body, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (h *HTTPClient) post(ctx context.Context, path, token string, in, out interface{}) error {
	var body io.Reader = http.NoBody
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", constants.TokenTypeBearer+" "+token)
	}

	resp, err := h.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", path, err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if resp.StatusCode >= 400 {
				return &AuthError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
			}
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}

	if resp.StatusCode >= 400 || !env.Success {
		ae := &AuthError{Status: resp.StatusCode, Message: env.Message}
		if env.Error != nil {
			ae.Code = env.Error.Code
			ae.Message = env.Error.Message
		}
		if ae.Message == "" {
			ae.Message = http.StatusText(resp.StatusCode)
		}
		return ae
	}

	if out != nil {
		if len(env.Data) == 0 {
			return fmt.Errorf("%w: missing data", ErrInvalidResponse)
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}
	return nil
}
