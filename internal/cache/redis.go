// Package cache wraps a Redis client. The streaming bus publishes workflow events through it;
// no report lookup is cached here.
package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	RedisClient *redis.Client
	ctx         = context.Background()
)

// InitRedis connects to the Redis instance at url. A failed ping is logged, not fatal — every
// helper below is nil-tolerant so the rest of the service degrades gracefully without Redis.
func InitRedis(url string) {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         url,
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 3,
	})

	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		log.Printf("⚠️ Redis connection failed: %v", err)
	} else {
		log.Println("🔴 Redis connected successfully")
	}
}

func Get(key string) (string, error) {
	if RedisClient == nil {
		return "", context.DeadlineExceeded
	}
	return RedisClient.Get(ctx, key).Result()
}

func Set(key string, value interface{}, ttl time.Duration) error {
	if RedisClient == nil {
		return context.DeadlineExceeded
	}
	return RedisClient.Set(ctx, key, value, ttl).Err()
}

func Delete(key string) error {
	if RedisClient == nil {
		return context.DeadlineExceeded
	}
	return RedisClient.Del(ctx, key).Err()
}

func Ping() error {
	if RedisClient == nil {
		return context.DeadlineExceeded
	}
	return RedisClient.Ping(ctx).Err()
}

// Publish fans a workflow event payload out to every instance subscribed to channel.
func Publish(channel string, payload []byte) error {
	if RedisClient == nil {
		return context.DeadlineExceeded
	}
	return RedisClient.Publish(ctx, channel, payload).Err()
}

// Subscribe returns a Redis Pub/Sub subscription to channel (nil when Redis was never
// initialized); messages are read from it via its Channel method until it is closed.
func Subscribe(channel string) *redis.PubSub {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Subscribe(ctx, channel)
}
