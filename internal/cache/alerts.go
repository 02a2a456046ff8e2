package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/holoo/stockcast/internal/alerts"
	"github.com/holoo/stockcast/internal/config"
)

const (
	alertsKey        = "alerts:current"
	defaultAlertsTTL = time.Minute
)

// AlertsCache keeps the last computed notification list so the alerts
// endpoint does not rescan the result table on every poll.
type AlertsCache interface {
	Get(ctx context.Context) ([]alerts.Notification, bool, error)
	Set(ctx context.Context, notifications []alerts.Notification) error
	Invalidate(ctx context.Context) error
}

type redisAlertsCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopAlertsCache struct{}

// NewAlertsCache returns a redis-backed cache, or a no-op one when caching
// is disabled in config.
func NewAlertsCache(cfg config.CacheConfig) (AlertsCache, error) {
	if !cfg.Enabled {
		return &noopAlertsCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.AlertsTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultAlertsTTL
	}

	return &redisAlertsCache{client: client, ttl: ttl}, nil
}

func NewNoopAlertsCache() AlertsCache {
	return &noopAlertsCache{}
}

func (c *redisAlertsCache) Get(ctx context.Context) ([]alerts.Notification, bool, error) {
	payload, err := c.client.Get(ctx, alertsKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var notifications []alerts.Notification
	if err := json.Unmarshal(payload, &notifications); err != nil {
		return nil, false, fmt.Errorf("decode alerts cache: %w", err)
	}
	return notifications, true, nil
}

func (c *redisAlertsCache) Set(ctx context.Context, notifications []alerts.Notification) error {
	payload, err := json.Marshal(notifications)
	if err != nil {
		return fmt.Errorf("encode alerts cache: %w", err)
	}
	if err := c.client.Set(ctx, alertsKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisAlertsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, alertsKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (n *noopAlertsCache) Get(ctx context.Context) ([]alerts.Notification, bool, error) {
	return nil, false, nil
}

func (n *noopAlertsCache) Set(ctx context.Context, notifications []alerts.Notification) error {
	return nil
}

func (n *noopAlertsCache) Invalidate(ctx context.Context) error {
	return nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}

	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}
