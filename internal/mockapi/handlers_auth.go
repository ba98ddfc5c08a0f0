package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/goatkit/novadmin/internal/apierrors"
	"github.com/goatkit/novadmin/internal/constants"
	"github.com/goatkit/novadmin/internal/models"
	"github.com/goatkit/novadmin/internal/session"
	"github.com/goatkit/novadmin/internal/validation"
)

func sendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func (s *Server) handleLogin(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		s.metrics.login(loginRejected)
		apierrors.Error(c, apierrors.CodeInvalidRequest)
		return
	}
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		s.metrics.login(loginRejected)
		apierrors.Error(c, apierrors.CodeMissingCredentials)
		return
	}

	user, err := s.users.Authenticate(creds.Username, creds.Password, s.now())
	if err != nil {
		switch {
		case errors.Is(err, ErrAccountDisabled):
			s.metrics.login(loginDisabled)
			apierrors.Error(c, apierrors.CodeAccountDisabled)
		default:
			s.metrics.login(loginInvalid)
			apierrors.Error(c, apierrors.CodeInvalidCredentials)
		}
		return
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Printf("Failed to issue token for %s: %v", user.Username, err)
		apierrors.Error(c, apierrors.CodeInternalError)
		return
	}
	s.metrics.login(loginSuccess)

	sendSuccess(c, session.LoginData{
		User:         user,
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    constants.TokenTypeBearer,
		ExpiresIn:    pair.ExpiresIn,
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	if claims, ok := currentClaims(c); ok {
		s.tokens.Revoke(claims)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "已退出登录"})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) handleRefresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		s.metrics.refresh(false)
		apierrors.Error(c, apierrors.CodeInvalidRefresh)
		return
	}

	userID, err := s.tokens.Redeem(req.RefreshToken)
	if err != nil {
		s.metrics.refresh(false)
		apierrors.Error(c, apierrors.CodeInvalidRefresh)
		return
	}
	user, ok := s.users.Get(userID)
	if !ok || !user.Active() {
		s.metrics.refresh(false)
		apierrors.Error(c, apierrors.CodeAccountDisabled)
		return
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Printf("Failed to reissue token for %s: %v", user.Username, err)
		apierrors.Error(c, apierrors.CodeInternalError)
		return
	}
	s.metrics.refresh(true)

	sendSuccess(c, session.RefreshData{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    constants.TokenTypeBearer,
		ExpiresIn:    pair.ExpiresIn,
	})
}

func (s *Server) handleMe(c *gin.Context) {
	user, ok := s.users.Get(c.GetString(ctxUserID))
	if !ok {
		apierrors.Error(c, apierrors.CodeNotFound)
		return
	}
	sendSuccess(c, user)
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (s *Server) handleChangePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.Error(c, apierrors.CodeInvalidRequest)
		return
	}

	err := s.users.ChangePassword(c.GetString(ctxUserID), req.CurrentPassword, req.NewPassword, s.passwordPolicy)
	var verr *validation.PasswordValidationError
	switch {
	case err == nil:
	case errors.Is(err, ErrWrongPassword):
		apierrors.Error(c, apierrors.CodeWrongPassword)
		return
	case errors.As(err, &verr):
		apierrors.ErrorWithMessage(c, apierrors.CodeWeakPassword, verr.Message)
		return
	case errors.Is(err, ErrUserNotFound):
		apierrors.Error(c, apierrors.CodeNotFound)
		return
	default:
		s.logger.Printf("Failed to change password: %v", err)
		apierrors.Error(c, apierrors.CodeInternalError)
		return
	}

	sendSuccess(c, gin.H{
		"message":    "密码已修改",
		"changed_at": s.now(),
	})
}
