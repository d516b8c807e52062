package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomasvidal/fieldforge-backend/pkg/config"
	"github.com/tomasvidal/fieldforge-backend/pkg/logger"
)

const (
	keyNamespace    = "ff"
	fieldDefsPrefix = "field_defs"
)

// ErrCacheMiss is returned when a key has no value.
var ErrCacheMiss = errors.New("cache miss")

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Client wraps the redis connection helpers needed by the platform.
type Client struct {
	store cmdable
	raw   *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// DefinitionCache is the surface the product service uses to cache normalized
// field-definition sets. It is injected per construction, never global.
type DefinitionCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	FieldDefinitionsKey(productID string) string
}

// New connects a redis client from configuration.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "redis connection established")
	}

	return &Client{store: raw, raw: raw}, nil
}

// NewFromCmdable wires a client around any command surface; used by tests.
func NewFromCmdable(store cmdable) *Client {
	return &Client{store: store}
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		applyTunables(opts, cfg)
		return opts, nil
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address or url is required")
	}
	opts := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	applyTunables(opts, cfg)
	return opts, nil
}

func applyTunables(opts *redis.Options, cfg config.RedisConfig) {
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
}

// Ping verifies the redis connection is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.store.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// Get fetches a string value, translating redis.Nil into ErrCacheMiss.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.store.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

// Set stores a string value with a TTL.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.store.Set(ctx, key, value, ttl).Err()
}

// Del removes the given keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.store.Del(ctx, keys...).Err()
}

// FieldDefinitionsKey builds the cache key for a product's definition set.
func (c *Client) FieldDefinitionsKey(productID string) string {
	return strings.Join([]string{keyNamespace, fieldDefsPrefix, productID}, ":")
}
