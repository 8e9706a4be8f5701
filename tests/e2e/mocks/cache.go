package mocks

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// InMemoryCache never holds anything.
type InMemoryCache struct{}

func (c *InMemoryCache) Get(ctx context.Context, key string, dest any) error {
	return redis.Nil
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value any, exp time.Duration) error {
	return nil
}

func (c *InMemoryCache) Close() error {
	return nil
}

// TrackingCache stores JSON like the redis cache does and counts calls.
type TrackingCache struct {
	mu       sync.Mutex
	getCalls int
	setCalls int
	data     map[string]CacheEntry
}

type CacheEntry struct {
	Value  []byte
	Expiry time.Time
}

func NewTrackingCache() *TrackingCache {
	return &TrackingCache{
		data: make(map[string]CacheEntry),
	}
}

func (c *TrackingCache) Get(ctx context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getCalls++
	if entry, exists := c.data[key]; exists && time.Now().Before(entry.Expiry) {
		return json.Unmarshal(entry.Value, dest)
	}
	return redis.Nil
}

func (c *TrackingCache) Set(ctx context.Context, key string, value any, exp time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCalls++
	c.data[key] = CacheEntry{
		Value:  raw,
		Expiry: time.Now().Add(exp),
	}
	return nil
}

func (c *TrackingCache) InvalidatePrefix(ctx context.Context, prefix string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
			n++
		}
	}
	return n, nil
}

func (c *TrackingCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func (c *TrackingCache) Calls() (gets, sets int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getCalls, c.setCalls
}

func (c *TrackingCache) Close() error {
	return nil
}
