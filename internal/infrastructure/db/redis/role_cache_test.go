package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNewRoleCache_DefaultTTL(t *testing.T) {
	c := NewRoleCache(nil, 0)
	if c.ttl != defaultRoleCacheTTL {
		t.Fatalf("expected default ttl, got %s", c.ttl)
	}
}

func TestRoleCache_UnreachableServerReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRoleCache(client, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	roles, ok, err := c.Get(ctx)
	if err == nil || ok || roles != nil {
		t.Fatalf("expected error without a hit, got %v %v %v", roles, ok, err)
	}
	if err := c.Set(ctx, nil); err == nil {
		t.Fatalf("expected set error")
	}
}

func TestRoleCache_InvalidateUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := NewRoleCache(client, time.Minute).Invalidate(ctx); err == nil {
		t.Fatalf("expected invalidate error")
	}
}
