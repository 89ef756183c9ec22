package l2

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-page-cache/internal/config"
	"go-page-cache/internal/interfaces"
)

var _ interfaces.KeyDbClient = (*RedisKeyDbClient)(nil)

// RedisKeyDbClient is the go-redis client behind the KeyDB page store
type RedisKeyDbClient struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisKeyDbClient connects to the KeyDB instance at keydbURL.
// The URL carries host, password and database (redis://:pass@host:6379/2);
// timeouts and pool size come from the KeyDB config.
func NewRedisKeyDbClient(keydbCfg *config.KeyDBConfig, keydbURL string, logger *zap.Logger) (interfaces.KeyDbClient, error) {
	parsedURL, err := url.Parse(keydbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse KeyDB URL: %w", err)
	}
	if parsedURL.Hostname() == "" {
		return nil, fmt.Errorf("KeyDB URL %q has no host", keydbURL)
	}

	opts, err := redis.ParseURL(keydbURL)
	if err != nil {
		return nil, fmt.Errorf("invalid KeyDB URL: %w", err)
	}
	opts.DialTimeout = keydbCfg.GetConnectTimeout()
	opts.ReadTimeout = keydbCfg.GetReadTimeout()
	opts.WriteTimeout = keydbCfg.GetSendTimeout()
	opts.PoolSize = keydbCfg.Keepalive.PoolSize
	opts.IdleTimeout = keydbCfg.GetMaxIdleTimeout()

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), keydbCfg.GetConnectTimeout())
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to KeyDB at %s: %w", opts.Addr, err)
	}

	logger.Info("Connected to KeyDB",
		zap.String("address", opts.Addr),
		zap.Int("db", opts.DB),
		zap.Duration("connect_timeout", keydbCfg.GetConnectTimeout()),
		zap.Int("pool_size", keydbCfg.Keepalive.PoolSize))

	return &RedisKeyDbClient{
		client: client,
		logger: logger,
	}, nil
}

func (r *RedisKeyDbClient) Get(ctx context.Context, key string) *redis.StringCmd {
	return r.client.Get(ctx, key)
}

func (r *RedisKeyDbClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	return r.client.Set(ctx, key, value, expiration)
}

func (r *RedisKeyDbClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return r.client.Del(ctx, keys...)
}

func (r *RedisKeyDbClient) Ping(ctx context.Context) *redis.StatusCmd {
	return r.client.Ping(ctx)
}

func (r *RedisKeyDbClient) Close() error {
	return r.client.Close()
}
