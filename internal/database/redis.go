package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ranadipgithub/CodeUP/internal/config"
)

var Redis *redis.Client
var Ctx = context.Background()

// InitRedis connects the shared client. Redis is a pure optimization here:
// when it is down, cached reads fall through to Postgres and the submit
// cooldown is disabled rather than failing requests.
func InitRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	if _, err := Redis.Ping(Ctx).Result(); err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Caching and submit cooldowns will be disabled.", err)
		Redis = nil
	} else {
		log.Println("Connected to Redis successfully")
	}
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}

// --- Caching ---

func CacheSet(key string, value interface{}, expiration time.Duration) error {
	if Redis == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return Redis.Set(Ctx, key, data, expiration).Err()
}

func CacheGet(key string, dest interface{}) error {
	if Redis == nil {
		return redis.Nil
	}
	val, err := Redis.Get(Ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func CacheDelete(keys ...string) error {
	if Redis == nil || len(keys) == 0 {
		return nil
	}
	return Redis.Del(Ctx, keys...).Err()
}

// CacheInvalidate scans for keys matching the pattern and bulk-deletes them.
// Listing caches are full JSON snapshots keyed by query shape, so writes must
// clear every potentially stale key instead of relying on expiry.
func CacheInvalidate(pattern string) error {
	if Redis == nil {
		return nil
	}
	keys, err := Redis.Keys(Ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return Redis.Del(Ctx, keys...).Err()
	}
	return nil
}

// --- Submit cooldown ---

// AcquireCooldown sets a per-user, per-action cooldown key if absent.
// Returns false when the key already exists, i.e. the user is still cooling
// down. The TTL is the only release mechanism; nothing clears the key early.
func AcquireCooldown(action, userID string, ttl time.Duration) (bool, error) {
	if Redis == nil {
		return true, nil
	}
	key := fmt.Sprintf("%s_cooldown:%s", action, userID)
	return Redis.SetNX(Ctx, key, "cooldown-active", ttl).Result()
}

// --- Token blacklist ---

func BlacklistToken(jti string, ttl time.Duration) error {
	if Redis == nil {
		return nil
	}
	return Redis.Set(Ctx, "token_block:"+jti, "blocked", ttl).Err()
}

func IsTokenBlacklisted(jti string) bool {
	if Redis == nil || jti == "" {
		return false
	}
	n, err := Redis.Exists(Ctx, "token_block:"+jti).Result()
	return err == nil && n > 0
}
