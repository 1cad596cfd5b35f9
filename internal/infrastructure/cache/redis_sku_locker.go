package cache

import (
	"context"
	"fmt"
	"time"

	integrationapp "github.com/erp/catalogsync/internal/application/integration"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript deletes the lock only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisSKULocker implements SKULocker with SET NX PX so that workers in
// different processes never synchronize the same SKU at once.
type RedisSKULocker struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	wait      time.Duration
	poll      time.Duration
	logger    *zap.Logger
}

var _ integrationapp.SKULocker = (*RedisSKULocker)(nil)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings Redis
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisSKULocker creates a locker on an existing client. ttl bounds how
// long a crashed worker can hold a SKU; wait bounds how long Lock blocks.
func NewRedisSKULocker(client *redis.Client, ttl, wait time.Duration, logger *zap.Logger) *RedisSKULocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSKULocker{
		client:    client,
		keyPrefix: "catalogsync:sku-lock:",
		ttl:       ttl,
		wait:      wait,
		poll:      100 * time.Millisecond,
		logger:    logger.Named("sku_lock"),
	}
}

// Lock acquires the SKU lock, polling until the wait budget is spent
func (l *RedisSKULocker) Lock(ctx context.Context, sku string) (func(), error) {
	key := l.keyPrefix + sku
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire sku lock: %w", err)
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}
		if time.Now().After(deadline) {
			return nil, integration.ErrSKULocked
		}

		timer := time.NewTimer(l.poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *RedisSKULocker) release(key, token string) {
	// Released on a fresh context so a cancelled sync still frees the SKU
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		l.logger.Warn("Failed to release sku lock", zap.String("key", key), zap.Error(err))
	}
}
