// Package mockapi is a local stand-in for the admin backend. It issues and
// refreshes tokens for seeded accounts and serves the lookup tables and file
// exports the dashboard uses.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/goatkit/novadmin/internal/config"
	"github.com/goatkit/novadmin/internal/constants"
	"github.com/goatkit/novadmin/internal/permissions"
	"github.com/goatkit/novadmin/internal/validation"
)

// Server is the mock backend.
type Server struct {
	cfg            *config.Config
	users          *UserStore
	tokens         *TokenIssuer
	sweeper        *Sweeper
	passwordPolicy validation.PasswordPolicy
	metrics        *authMetrics
	logger         *log.Logger
	now            func() time.Time
	seed           []byte
	bcryptCost     int
	router         *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now for token issuing and validation.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSeed replaces the embedded account seed.
func WithSeed(data []byte) Option {
	return func(s *Server) {
		if len(data) > 0 {
			s.seed = data
		}
	}
}

// WithBcryptCost sets the cost used to hash seeded and changed passwords.
func WithBcryptCost(cost int) Option {
	return func(s *Server) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

// NewServer loads the accounts and builds the router. cfg.Auth.SeedFile, when
// set, overrides the embedded seed.
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.Get()
	}
	s := &Server{
		cfg:            cfg,
		passwordPolicy: cfg.Auth.Password,
		metrics:        globalAuthMetrics(),
		logger:         log.Default(),
		now:            time.Now,
		seed:           defaultSeed,
		bcryptCost:     bcrypt.DefaultCost,
	}
	if cfg.Auth.SeedFile != "" {
		data, err := os.ReadFile(cfg.Auth.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		s.seed = data
	}
	for _, opt := range opts {
		opt(s)
	}

	users, err := LoadUsers(s.seed, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	s.users = users

	tokens, err := NewTokenIssuer(cfg.Auth, cfg.Server.Mode, s.now, s.logger)
	if err != nil {
		return nil, err
	}
	s.tokens = tokens
	s.sweeper = NewSweeper(tokens, cfg.Auth.CleanupSchedule)
	s.router = s.routes()

	s.logger.Printf("Mock backend ready with %d accounts", users.Len())
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if s.cfg.Server.Mode == gin.DebugMode {
		r.Use(gin.Logger())
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := RequireAuth(s.tokens)

	r.POST(constants.PathLogin, s.handleLogin)
	r.POST(constants.PathRefresh, s.handleRefresh)
	r.POST(constants.PathLogout, auth, s.handleLogout)
	r.GET(constants.PathMe, auth, s.handleMe)
	r.POST("/api/auth/password", auth, s.handleChangePassword)

	lookups := r.Group("/api/lookups")
	lookups.GET("/statuses", s.handleStatuses)
	lookups.GET("/statuses/:category", s.handleCategoryStatuses)
	lookups.GET("/statuses/:category/:code", s.handleStatus)
	lookups.GET("/priorities", s.handlePriorities)
	lookups.GET("/error-codes/:namespace", s.handleErrorCodes)

	r.GET("/api/roles", auth, s.handleRoles)
	r.POST("/api/export/:format", auth, RequireRole(permissions.RoleEditor), s.handleExport)

	return r
}

// Router returns the HTTP handler.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Tokens exposes the token issuer.
func (s *Server) Tokens() *TokenIssuer {
	return s.tokens
}

// Run serves on cfg.Server.Addr until ctx is cancelled, then shuts down
// gracefully. The token sweeper runs for the lifetime of the server.
func (s *Server) Run(ctx context.Context) error {
	if err := s.sweeper.Start(); err != nil {
		return err
	}
	defer s.sweeper.Stop()

	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Mock backend listening on %s", s.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Printf("Mock backend stopped")
	return nil
}
