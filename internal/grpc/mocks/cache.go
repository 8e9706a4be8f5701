package mocks

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is what a cache returns for an absent key.
var ErrMiss = redis.Nil

// MockCacher is a mock implementation of the cache interface
// for testing the handler layer. It uses function-based mocking for flexibility.
type MockCacher struct {
	GetFunc              func(ctx context.Context, key string, dest any) error
	SetFunc              func(ctx context.Context, key string, value any, expiration time.Duration) error
	CloseFunc            func() error
	InvalidatePrefixFunc func(ctx context.Context, prefix string) (int, error)
	TTLFunc              func(ctx context.Context, key string) (time.Duration, error)
}

// Get implements the cache interface
func (m *MockCacher) Get(ctx context.Context, key string, dest any) error {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key, dest)
	}
	return ErrMiss
}

// Set implements the cache interface
func (m *MockCacher) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

// Close implements the cache interface
func (m *MockCacher) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// InvalidatePrefix implements the optional invalidation hook
func (m *MockCacher) InvalidatePrefix(ctx context.Context, prefix string) (int, error) {
	if m.InvalidatePrefixFunc != nil {
		return m.InvalidatePrefixFunc(ctx, prefix)
	}
	return 0, nil
}

// TTL implements the optional remaining-lifetime hook. Without TTLFunc no key
// ever looks close to expiry.
func (m *MockCacher) TTL(ctx context.Context, key string) (time.Duration, error) {
	if m.TTLFunc != nil {
		return m.TTLFunc(ctx, key)
	}
	return 0, nil
}
