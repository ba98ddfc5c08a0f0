// Package config loads novadmin settings from an optional YAML file and
// NOVADMIN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/goatkit/novadmin/internal/constants"
	"github.com/goatkit/novadmin/internal/dateutil"
	"github.com/goatkit/novadmin/internal/validation"
)

// EnvPrefix prefixes every environment override, e.g. NOVADMIN_SERVER_ADDR.
const EnvPrefix = "NOVADMIN"

// Session storage backends.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Session SessionConfig `mapstructure:"session"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Export  ExportConfig  `mapstructure:"export"`
	Dates   DatesConfig   `mapstructure:"dates"`
}

// ServerConfig configures the mock backend listener.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release or test
}

// AuthConfig configures token issuing on the mock backend.
type AuthConfig struct {
	JWTSecret       string                    `mapstructure:"jwt_secret"`
	Issuer          string                    `mapstructure:"issuer"`
	AccessTokenTTL  time.Duration             `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration             `mapstructure:"refresh_token_ttl"`
	CleanupSchedule time.Duration             `mapstructure:"cleanup_schedule"`
	SeedFile        string                    `mapstructure:"seed_file"`
	Password        validation.PasswordPolicy `mapstructure:"password"`
}

// SessionConfig configures the client-side session manager.
type SessionConfig struct {
	BackendURL  string        `mapstructure:"backend_url"`
	Storage     string        `mapstructure:"storage"`
	FilePath    string        `mapstructure:"file_path"`
	RefreshLead time.Duration `mapstructure:"refresh_lead"`
}

// RedisConfig configures the Redis session storage.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// ExportConfig configures file exports.
type ExportConfig struct {
	Dir       string `mapstructure:"dir"`
	SheetName string `mapstructure:"sheet_name"`
}

// DatesConfig configures date rendering.
type DatesConfig struct {
	Locale   string `mapstructure:"locale"`
	Timezone string `mapstructure:"timezone"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "novadmin")
	v.SetDefault("auth.access_token_ttl", time.Duration(constants.DefaultAccessTokenTTL)*time.Second)
	v.SetDefault("auth.refresh_token_ttl", time.Duration(constants.DefaultRefreshTokenTTL)*time.Second)
	v.SetDefault("auth.cleanup_schedule", 5*time.Minute)
	v.SetDefault("auth.seed_file", "")
	def := validation.DefaultAdminPasswordPolicy()
	v.SetDefault("auth.password.reg_exp", def.RegExp)
	v.SetDefault("auth.password.min_size", def.MinSize)
	v.SetDefault("auth.password.min_2_lower_2_upper", def.Min2Lower2Upper)
	v.SetDefault("auth.password.need_digit", def.NeedDigit)
	v.SetDefault("auth.password.min_2_letters", def.Min2Letters)

	v.SetDefault("session.backend_url", "http://localhost:8080")
	v.SetDefault("session.storage", StorageMemory)
	v.SetDefault("session.file_path", "novadmin-session.json")
	v.SetDefault("session.refresh_lead", time.Duration(constants.RefreshLeadTime)*time.Second)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "novadmin:session:")

	v.SetDefault("export.dir", "exports")
	v.SetDefault("export.sheet_name", "Sheet1")

	v.SetDefault("dates.locale", string(dateutil.LocaleChinese))
	v.SetDefault("dates.timezone", "Local")
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets a custom logger.
func WithLogger(l *log.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// Loader reads configuration through viper.
type Loader struct {
	v      *viper.Viper
	path   string
	logger *log.Logger
	mu     sync.Mutex
}

// NewLoader creates a loader for the YAML file at path. An empty path reads
// only defaults and the environment.
func NewLoader(path string, opts ...Option) *Loader {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
	}

	l := &Loader{v: v, path: path, logger: log.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path != "" {
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", l.path, err)
		}
	}
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Watch reloads the file on change and passes each valid result to onChange.
// Invalid edits are logged and ignored.
func (l *Loader) Watch(onChange func(*Config)) {
	if l.path == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := l.Load()
		if err != nil {
			l.logger.Printf("Warning: ignoring config change in %s: %v", e.Name, err)
			return
		}
		l.logger.Printf("Config reloaded from %s (%s)", e.Name, e.Op)
		if onChange != nil {
			onChange(cfg)
		}
	})
	l.v.WatchConfig()
}

// Load reads configuration from path and the environment.
func Load(path string) (*Config, error) {
	return NewLoader(path).Load()
}

func (c *Config) normalize() {
	c.Server.Mode = strings.ToLower(strings.TrimSpace(c.Server.Mode))
	c.Session.Storage = strings.ToLower(strings.TrimSpace(c.Session.Storage))
	c.Dates.Locale = string(dateutil.ParseLocale(c.Dates.Locale))
	c.Session.BackendURL = strings.TrimRight(c.Session.BackendURL, "/")
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	var errs []error
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode: unknown mode %q", c.Server.Mode))
	}
	switch c.Session.Storage {
	case StorageMemory, StorageFile, StorageRedis:
	default:
		errs = append(errs, fmt.Errorf("session.storage: unknown backend %q", c.Session.Storage))
	}
	if c.Session.Storage == StorageFile && c.Session.FilePath == "" {
		errs = append(errs, errors.New("session.file_path: required for file storage"))
	}
	if c.Session.Storage == StorageRedis && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr: required for redis storage"))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("auth.access_token_ttl: must be positive"))
	}
	if c.Auth.RefreshTokenTTL < c.Auth.AccessTokenTTL {
		errs = append(errs, errors.New("auth.refresh_token_ttl: must not be shorter than the access token"))
	}
	if c.Auth.CleanupSchedule < time.Minute {
		errs = append(errs, errors.New("auth.cleanup_schedule: must be at least one minute"))
	}
	if c.Session.RefreshLead < 0 {
		errs = append(errs, errors.New("session.refresh_lead: must not be negative"))
	}
	if _, err := time.LoadLocation(c.Dates.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("dates.timezone: %w", err))
	}
	return errors.Join(errs...)
}

// Calendar builds the date calendar described by the dates section.
func (d DatesConfig) Calendar() (*dateutil.Calendar, error) {
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", d.Timezone, err)
	}
	return dateutil.New(
		dateutil.WithLocation(loc),
		dateutil.WithLocale(dateutil.ParseLocale(d.Locale)),
	), nil
}

var (
	current  atomic.Pointer[Config]
	loadOnce sync.Once
)

// Get returns the process configuration. Until Set is called it is built from
// defaults and the environment.
func Get() *Config {
	if cfg := current.Load(); cfg != nil {
		return cfg
	}
	loadOnce.Do(func() {
		cfg, err := Load("")
		if err != nil {
			log.Printf("Warning: invalid environment configuration, using defaults: %v", err)
			cfg = Defaults()
		}
		current.CompareAndSwap(nil, cfg)
	})
	return current.Load()
}

// Set replaces the process configuration.
func Set(cfg *Config) {
	if cfg != nil {
		current.Store(cfg)
	}
}

// Defaults returns the built-in configuration, ignoring the environment.
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	cfg.normalize()
	return &cfg
}
