package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vidsum/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "vs"

// NewRedisClient 按配置创建 Redis 客户端，未启用时返回 nil
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	addr := strings.TrimSpace(cfg.Host)
	if addr == "" {
		addr = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	return redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", addr, port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 3 * time.Second,
	})
}

// Ping 检查 Redis 连通性，nil 客户端视为未启用
func Ping(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Ping(ctx).Err()
}

// Prefix 返回统一的 key 前缀
func Prefix(cfg *config.RedisConfig) string {
	if cfg == nil {
		return defaultPrefix
	}
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		return defaultPrefix
	}
	return prefix
}

// BuildKey 拼接带前缀的 key
func BuildKey(prefix string, parts ...string) string {
	segments := make([]string, 0, len(parts)+1)
	if p := strings.TrimSpace(prefix); p != "" {
		segments = append(segments, p)
	}
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return strings.Join(segments, ":")
}
