package mockapi

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/goatkit/novadmin/internal/apierrors"
	"github.com/goatkit/novadmin/internal/permissions"
)

// Context keys set by RequireAuth.
const (
	ctxUserID   = "user_id"
	ctxUserRole = "user_role"
	ctxClaims   = "claims"
)

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth validates the bearer token and stores its claims on the context.
func RequireAuth(tokens *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			apierrors.Error(c, apierrors.CodeUnauthorized)
			return
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				apierrors.Error(c, apierrors.CodeTokenExpired)
			case errors.Is(err, ErrTokenRevoked):
				apierrors.Error(c, apierrors.CodeTokenRevoked)
			default:
				apierrors.Error(c, apierrors.CodeInvalidToken)
			}
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxUserRole, claims.Role)
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// RequireRole lets through users whose role ranks at or above min. It must run
// after RequireAuth.
func RequireRole(min permissions.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := permissions.ParseRole(c.GetString(ctxUserRole))
		if !permissions.IsAtLeast(role, min) {
			apierrors.ErrorWithMessage(c, apierrors.CodeForbidden,
				"Requires role "+string(min)+" or higher")
			return
		}
		c.Next()
	}
}

func currentClaims(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
