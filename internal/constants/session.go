package constants

// Session timing constants (in seconds)
const (
	DefaultAccessTokenTTL  = 7200   // 2 hours
	DefaultRefreshTokenTTL = 604800 // 7 days
	RefreshLeadTime        = 300    // refresh this long before expiry
	MinRefreshDelay        = 5
)

// TokenTypeBearer is the only token type the backend issues.
const TokenTypeBearer = "Bearer"

// Client-side storage keys for the admin session.
const (
	StorageKeyAdminToken     = "admin_token"
	StorageKeyAccessToken    = "accessToken"
	StorageKeyAdminUser      = "admin_user"
	StorageKeyRefreshToken   = "refreshToken"
	StorageKeyTokenType      = "tokenType"
	StorageKeyExpiresIn      = "expiresIn"
	StorageKeyTokenExpiresAt = "tokenExpiresAt"
	StorageKeyRemember       = "admin_remember"
)

// SessionStorageKeys lists every key a stored session occupies, in write order.
var SessionStorageKeys = []string{
	StorageKeyAdminToken,
	StorageKeyAccessToken,
	StorageKeyAdminUser,
	StorageKeyRefreshToken,
	StorageKeyTokenType,
	StorageKeyExpiresIn,
	StorageKeyTokenExpiresAt,
}

// Auth endpoints on the admin backend.
const (
	PathLogin   = "/api/auth/login"
	PathLogout  = "/api/auth/logout"
	PathRefresh = "/api/auth/refresh"
	PathMe      = "/api/auth/me"
)
