package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisClient struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisClient(addr, password string, db int, log *zap.Logger) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("redis connected", zap.String("addr", addr))

	return &RedisClient{client: rdb, log: log}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func couponKey(code string) string { return "coupon:" + code }

// GetCoupon returns (nil, nil) on a cache miss. A corrupt cache entry is
// treated as a miss as well; the lookup falls back to the database.
func (r *RedisClient) GetCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	data, err := r.client.Get(ctx, couponKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var c models.Coupon
	if err := json.Unmarshal(data, &c); err != nil {
		r.log.Warn("corrupt coupon cache entry", zap.String("code", code), zap.Error(err))
		_ = r.client.Del(ctx, couponKey(code)).Err()
		return nil, nil
	}
	return &c, nil
}

func (r *RedisClient) SetCoupon(ctx context.Context, c *models.Coupon, ttl time.Duration) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, couponKey(c.Code), data, ttl).Err()
}

// InvalidateCoupon drops the cached entry after a usage increment so the
// exhaustion check never runs against a stale counter for long.
func (r *RedisClient) InvalidateCoupon(ctx context.Context, code string) error {
	return r.client.Del(ctx, couponKey(code)).Err()
}
