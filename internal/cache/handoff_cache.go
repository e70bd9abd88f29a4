package cache

import (
	"context"
	"fmt"
	"time"

	"heartquiz/internal/handoff"

	"github.com/redis/go-redis/v9"
)

// HandoffCache hands out per-session Redis backends for handoff.Store
type HandoffCache interface {
	For(sessionID string) handoff.KV
}

type handoffCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewHandoffCache creates a new hand-off cache. Values outlive their
// session by ttl.
func NewHandoffCache(client *redis.Client, ttl time.Duration) HandoffCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &handoffCache{client: client, ttl: ttl}
}

func (c *handoffCache) For(sessionID string) handoff.KV {
	return &handoffKV{client: c.client, sessionID: sessionID, ttl: c.ttl}
}

type handoffKV struct {
	client    *redis.Client
	sessionID string
	ttl       time.Duration
}

func (kv *handoffKV) key(name string) string {
	return fmt.Sprintf("handoff:%s:%s", kv.sessionID, name)
}

func (kv *handoffKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := kv.client.Get(ctx, kv.key(key)).Bytes()
	if err == redis.Nil {
		return nil, handoff.ErrNotFound
	}
	return data, err
}

func (kv *handoffKV) Set(ctx context.Context, key string, value []byte) error {
	return kv.client.Set(ctx, kv.key(key), value, kv.ttl).Err()
}

func (kv *handoffKV) Delete(ctx context.Context, key string) error {
	n, err := kv.client.Del(ctx, kv.key(key)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return handoff.ErrNotFound
	}
	return nil
}
