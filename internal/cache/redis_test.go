package cache

import (
	"context"
	"testing"

	"github.com/vidsum/internal/config"
)

func TestNewRedisClientDisabled(t *testing.T) {
	if client := NewRedisClient(&config.RedisConfig{Enabled: false}); client != nil {
		t.Fatalf("disabled redis should return nil client")
	}
	if client := NewRedisClient(nil); client != nil {
		t.Fatalf("nil config should return nil client")
	}
	if err := Ping(context.Background(), nil); err != nil {
		t.Fatalf("ping on nil client should be a no-op, got %v", err)
	}
}

func TestNewRedisClientDefaults(t *testing.T) {
	client := NewRedisClient(&config.RedisConfig{Enabled: true})
	if client == nil {
		t.Fatalf("enabled redis should return client")
	}
	defer client.Close()
	if got := client.Options().Addr; got != "127.0.0.1:6379" {
		t.Fatalf("default addr want 127.0.0.1:6379 got %s", got)
	}
}

func TestPrefixAndBuildKey(t *testing.T) {
	if Prefix(&config.RedisConfig{Prefix: "  "}) != "vs" {
		t.Fatalf("blank prefix should fall back to vs")
	}
	if got := BuildKey("vs", "rate", "login", " 1.2.3.4 "); got != "vs:rate:login:1.2.3.4" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := BuildKey("", "", "a"); got != "a" {
		t.Fatalf("empty segments should be skipped, got %s", got)
	}
}
