package mockapi

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/goatkit/novadmin/internal/config"
	"github.com/goatkit/novadmin/internal/models"
)

// Token errors.
var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenRevoked   = errors.New("token revoked")
	ErrInvalidRefresh = errors.New("invalid or expired refresh token")
)

const minSecretLen = 32

// Claims are the access token claims.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenPair is a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type refreshEntry struct {
	userID          string
	accessJTI       string
	accessExpiresAt time.Time
	expiresAt       time.Time
}

// TokenIssuer signs HS256 access tokens and tracks opaque refresh tokens and
// revoked token ids in memory.
type TokenIssuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time

	mu      sync.Mutex
	refresh map[string]refreshEntry
	revoked map[string]time.Time // jti -> access token expiry
}

// NewTokenIssuer builds an issuer from the auth config. An empty secret is
// replaced with a random one outside release mode, and short secrets are
// padded the same way.
func NewTokenIssuer(cfg config.AuthConfig, mode string, now func() time.Time, logger *log.Logger) (*TokenIssuer, error) {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.Default()
	}

	secret := cfg.JWTSecret
	release := strings.EqualFold(mode, "release")
	if secret == "" {
		if release {
			return nil, errors.New("auth.jwt_secret is required in release mode")
		}
		b := make([]byte, minSecretLen)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		secret = hex.EncodeToString(b)
		logger.Printf("Warning: auth.jwt_secret not set, using a random secret; tokens will not survive a restart")
	}
	if len(secret) < minSecretLen && !release {
		pad := make([]byte, 16)
		if _, err := rand.Read(pad); err != nil {
			return nil, fmt.Errorf("pad jwt secret: %w", err)
		}
		secret += hex.EncodeToString(pad)
	}

	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := cfg.RefreshTokenTTL
	if refreshTTL < accessTTL {
		refreshTTL = accessTTL
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = "novadmin"
	}

	return &TokenIssuer{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        now,
		refresh:    make(map[string]refreshEntry),
		revoked:    make(map[string]time.Time),
	}, nil
}

// Issue signs an access token for u and stores a new refresh token.
func (t *TokenIssuer) Issue(u *models.User) (TokenPair, error) {
	if u == nil || u.ID == "" {
		return TokenPair{}, errors.New("user id is required")
	}
	now := t.now()
	jti := uuid.NewString()
	claims := Claims{
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
			ID:        jti,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign token: %w", err)
	}

	refresh := uuid.NewString()
	t.mu.Lock()
	t.refresh[refresh] = refreshEntry{
		userID:          u.ID,
		accessJTI:       jti,
		accessExpiresAt: now.Add(t.accessTTL),
		expiresAt:       now.Add(t.refreshTTL),
	}
	t.mu.Unlock()

	return TokenPair{
		AccessToken:  signed,
		RefreshToken: refresh,
		ExpiresIn:    int64(t.accessTTL / time.Second),
	}, nil
}

// Validate checks the signature, issuer, expiry and revocation of token.
func (t *TokenIssuer) Validate(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	t.mu.Lock()
	_, revoked := t.revoked[claims.ID]
	t.mu.Unlock()
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke denies the access token and drops the refresh tokens issued with it.
func (t *TokenIssuer) Revoke(claims *Claims) {
	if claims == nil || claims.ID == "" {
		return
	}
	expires := t.now().Add(t.accessTTL)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.revoked[claims.ID] = expires
	for token, e := range t.refresh {
		if e.accessJTI == claims.ID {
			delete(t.refresh, token)
		}
	}
}

// Redeem consumes a refresh token and returns the user it was issued to. Each
// refresh token works once, and the access token issued with it is revoked.
func (t *TokenIssuer) Redeem(refreshToken string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.refresh[refreshToken]
	if !ok {
		return "", ErrInvalidRefresh
	}
	delete(t.refresh, refreshToken)
	now := t.now()
	if !now.Before(e.expiresAt) {
		return "", ErrInvalidRefresh
	}
	if now.Before(e.accessExpiresAt) {
		t.revoked[e.accessJTI] = e.accessExpiresAt
	}
	return e.userID, nil
}

// Sweep drops expired refresh tokens and revocations whose access token has
// expired anyway.
func (t *TokenIssuer) Sweep() (refreshDropped, revokedDropped int) {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()

	for token, e := range t.refresh {
		if !now.Before(e.expiresAt) {
			delete(t.refresh, token)
			refreshDropped++
		}
	}
	for jti, exp := range t.revoked {
		if !now.Before(exp) {
			delete(t.revoked, jti)
			revokedDropped++
		}
	}
	return refreshDropped, revokedDropped
}

// Counts reports how many refresh tokens and revocations are held.
func (t *TokenIssuer) Counts() (refresh, revoked int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.refresh), len(t.revoked)
}
