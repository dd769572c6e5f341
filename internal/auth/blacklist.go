package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blacklist records revoked token ids until they would have expired anyway.
type Blacklist interface {
	Add(ctx context.Context, jti string, ttl time.Duration) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// RedisBlacklist stores revoked token ids as "blacklist:{jti}" keys.
type RedisBlacklist struct {
	client *redis.Client
	prefix string
}

// NewRedisBlacklist creates a blacklist on client.
func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client, prefix: "blacklist:"}
}

// Add marks jti revoked for ttl. A non-positive ttl is a no-op because the
// token has already expired.
func (b *RedisBlacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.prefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist set error: %w", err)
	}
	return nil
}

func (b *RedisBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, b.prefix+jti).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("blacklist exists error: %w", err)
	}
	return n > 0, nil
}

// MemoryBlacklist is the in-process blacklist used when no Redis is
// configured. Expired entries are dropped on lookup and swept on every Add,
// so ids that are never looked up again do not accumulate.
type MemoryBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{entries: make(map[string]time.Time), now: time.Now}
}

func (b *MemoryBlacklist) Add(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.sweep(now)
	b.entries[jti] = now.Add(ttl)
	return nil
}

// sweep drops every expired entry. Callers hold b.mu.
func (b *MemoryBlacklist) sweep(now time.Time) {
	for jti, exp := range b.entries {
		if !now.Before(exp) {
			delete(b.entries, jti)
		}
	}
}

func (b *MemoryBlacklist) Contains(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	exp, ok := b.entries[jti]
	if !ok {
		return false, nil
	}
	if !b.now().Before(exp) {
		delete(b.entries, jti)
		return false, nil
	}
	return true, nil
}
