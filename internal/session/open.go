package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goatkit/novadmin/internal/config"
)

// OpenDurable builds the durable storage named by cfg.Session.Storage. The
// returned close func releases any connection it opened.
func OpenDurable(ctx context.Context, cfg *config.Config) (Storage, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Session.Storage {
	case config.StorageMemory, "":
		return NewMemoryStorage(), noop, nil
	case config.StorageFile:
		return NewFileStorage(cfg.Session.FilePath), noop, nil
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		return NewRedisStorage(client, cfg.Redis.Prefix), client.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown session storage %q", cfg.Session.Storage)
}

// NewFromConfig wires an HTTP client and storages for the configured backend.
func NewFromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Manager, func() error, error) {
	durable, closeFn, err := OpenDurable(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	opts = append([]Option{WithRefreshLead(cfg.Session.RefreshLead)}, opts...)
	m := NewManager(NewHTTPClient(cfg.Session.BackendURL), durable, NewMemoryStorage(), opts...)
	return m, closeFn, nil
}
