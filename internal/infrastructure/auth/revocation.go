package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList remembers session tokens that were logged out before they
// expired. Entries only need to outlive the token itself.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// DefaultRevocationPrefix namespaces revoked token ids in Redis
const DefaultRevocationPrefix = "tailor:token:revoked:"

// RedisRevocationList stores one expiring key per revoked token, so every
// server instance sharing the Redis sees a logout
type RedisRevocationList struct {
	client *redis.Client
	prefix string
}

// NewRedisRevocationList creates the list on a shared client owned by the caller
func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client, prefix: DefaultRevocationPrefix}
}

// Revoke marks tokenID for ttl. A token with no lifetime left is ignored.
func (l *RedisRevocationList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := l.client.Set(ctx, l.prefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (l *RedisRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := l.client.Exists(ctx, l.prefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n == 1, nil
}

// MemoryRevocationList keeps revocations in process. A second server
// instance would not see them.
type MemoryRevocationList struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{expires: map[string]time.Time{}, now: time.Now}
}

// Revoke marks tokenID for ttl and drops entries whose token has expired
func (l *MemoryRevocationList) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, at := range l.expires {
		if !now.Before(at) {
			delete(l.expires, id)
		}
	}
	l.expires[tokenID] = now.Add(ttl)
	return nil
}

func (l *MemoryRevocationList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	at, ok := l.expires[tokenID]
	return ok && l.now().Before(at), nil
}

var (
	_ RevocationList = (*RedisRevocationList)(nil)
	_ RevocationList = (*MemoryRevocationList)(nil)
)
