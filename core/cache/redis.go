package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"guidia-api/core/constants"
	"guidia-api/core/logger"

	"github.com/redis/go-redis/v9"
)

type ICache interface {
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	BlacklistToken(ctx context.Context, token string, ttl time.Duration) error
	GetUnreadCount(ctx context.Context, userID string) (int, bool, error)
	SetUnreadCount(ctx context.Context, userID string, count int) error
	InvalidateUnreadCount(ctx context.Context, userID string) error
	Ping(ctx context.Context) error
	Close() error
}

type Cache struct {
	client *redis.Client
}

func InitCache(url string) (*Cache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	logger.Info("Redis cache initialized")
	return &Cache{client: client}, nil
}

func (c *Cache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, constants.RedisKeyTokenBlacklist+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *Cache) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	return c.client.Set(ctx, constants.RedisKeyTokenBlacklist+token, "1", ttl).Err()
}

// GetUnreadCount returns (count, hit, err). A miss is not an error.
func (c *Cache) GetUnreadCount(ctx context.Context, userID string) (int, bool, error) {
	res, err := c.client.Get(ctx, constants.RedisKeyUnreadNotification+userID).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	count, err := strconv.Atoi(res)
	if err != nil {
		return 0, false, nil
	}
	return count, true, nil
}

func (c *Cache) SetUnreadCount(ctx context.Context, userID string, count int) error {
	return c.client.Set(ctx, constants.RedisKeyUnreadNotification+userID, count, 5*time.Minute).Err()
}

func (c *Cache) InvalidateUnreadCount(ctx context.Context, userID string) error {
	return c.client.Del(ctx, constants.RedisKeyUnreadNotification+userID).Err()
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
