package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/kapu/azerite-bot-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type CacheService struct {
	client *redis.Client
	logger *zap.Logger
}

const gearKeyPrefix = "bis:entry:"

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewCacheService(cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &CacheService{
		client: client,
		logger: logger,
	}, nil
}

// Get decodes the JSON value at key into dest. A missing key reports found=false.
func (c *CacheService) Get(ctx context.Context, key string, dest any) (bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		c.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return false, errors.NewCacheError("get failed", "get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			c.logger.Error("Cache unmarshal failed", zap.String("key", key), zap.Error(err))
			return false, errors.NewCacheError("unmarshal failed", "get", key, err)
		}
	}

	return true, nil
}

func (c *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal failed", "set", key, err)
	}

	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		c.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("set failed", "set", key, err)
	}

	return nil
}

func (c *CacheService) Del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Error("Cache delete failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("delete failed", "del", key, err)
	}
	return nil
}

func (c *CacheService) DelMany(ctx context.Context, keys []string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	deleted, err := c.client.Del(ctx, keys...).Result()
	if err != nil {
		c.logger.Error("Cache delete many failed", zap.Int("count", len(keys)), zap.Error(err))
		return 0, errors.NewCacheError("delete many failed", "del", fmt.Sprintf("%d keys", len(keys)), err)
	}

	return deleted, nil
}

// Keys walks the keyspace with SCAN so large databases are not blocked.
func (c *CacheService) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys := make([]string, 0)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Error("Cache keys search failed", zap.String("pattern", pattern), zap.Error(err))
		return []string{}, errors.NewCacheError("keys search failed", "scan", pattern, err)
	}
	return keys, nil
}

func (c *CacheService) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := c.client.TTL(ctx, key).Result()
	if err != nil {
		c.logger.Error("Cache ttl failed", zap.String("key", key), zap.Error(err))
		return 0, errors.NewCacheError("ttl failed", "ttl", key, err)
	}
	return ttl, nil
}

func (c *CacheService) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection", zap.Error(err))
		return err
	}
	c.logger.Info("Redis disconnected")
	return nil
}

func (c *CacheService) IsConnected(ctx context.Context) bool {
	return c.client.Ping(ctx).Err() == nil
}

func (c *CacheService) WaitUntilReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for Redis to be ready")
		case <-ticker.C:
			if c.IsConnected(ctx) {
				return nil
			}
		}
	}
}

// GearSnapshot is the Redis form of one cached build.
type GearSnapshot struct {
	Gear      domain.GearSet `json:"gear"`
	CreatedAt time.Time      `json:"created_at"`
}

func gearKey(key domain.BuildKey) string {
	return gearKeyPrefix + key.String()
}

// LoadGear reads a build snapshot. found is false when Redis has no entry.
func (c *CacheService) LoadGear(ctx context.Context, key domain.BuildKey) (GearSnapshot, bool, error) {
	var snap GearSnapshot
	found, err := c.Get(ctx, gearKey(key), &snap)
	if err != nil || !found {
		return GearSnapshot{}, false, err
	}
	if snap.Gear == nil {
		snap.Gear = domain.GearSet{}
	}
	return snap, true, nil
}

// StoreGear writes a build snapshot that expires together with the in-memory entry.
func (c *CacheService) StoreGear(ctx context.Context, key domain.BuildKey, snap GearSnapshot, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.Set(ctx, gearKey(key), snap, ttl)
}

// ClearGear drops every build snapshot.
func (c *CacheService) ClearGear(ctx context.Context) (int64, error) {
	keys, err := c.Keys(ctx, gearKeyPrefix+"*")
	if err != nil {
		return 0, err
	}
	deleted, err := c.DelMany(ctx, keys)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		c.logger.Info("Gear snapshots cleared", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

func (c *CacheService) GetRedisClient() *redis.Client {
	return c.client
}
