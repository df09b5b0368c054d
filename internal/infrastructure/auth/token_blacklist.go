package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenBlacklist revokes tokens before they expire. Single tokens are revoked by jti
// on logout; all tokens of a user are revoked by a cut-off time on password change.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// RevokeUser rejects every token of the user issued at or before now
	RevokeUser(ctx context.Context, userID uuid.UUID, ttl time.Duration) error
	IsUserRevoked(ctx context.Context, userID uuid.UUID, issuedAt time.Time) (bool, error)
}

const defaultBlacklistPrefix = "erp:auth:revoked:"

// RedisTokenBlacklist keeps revocations in Redis so every API instance sees them
type RedisTokenBlacklist struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisTokenBlacklist creates a blacklist on an existing Redis client
func NewRedisTokenBlacklist(client redis.UniversalClient) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client, keyPrefix: defaultBlacklistPrefix}
}

func (b *RedisTokenBlacklist) jtiKey(jti string) string {
	return b.keyPrefix + "jti:" + jti
}

func (b *RedisTokenBlacklist) userKey(userID uuid.UUID) string {
	return b.keyPrefix + "user:" + userID.String()
}

// Revoke stores the jti until the token would have expired anyway
func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked checks a jti
func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, b.jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return n > 0, nil
}

// RevokeUser stores the cut-off as unix milliseconds
func (b *RedisTokenBlacklist) RevokeUser(ctx context.Context, userID uuid.UUID, ttl time.Duration) error {
	cutoff := time.Now().UnixMilli()
	if err := b.client.Set(ctx, b.userKey(userID), cutoff, ttl).Err(); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

// IsUserRevoked compares the token's issue time with the user's cut-off.
// JWT issue times have second precision, so a token issued in the cut-off second is revoked.
func (b *RedisTokenBlacklist) IsUserRevoked(ctx context.Context, userID uuid.UUID, issuedAt time.Time) (bool, error) {
	raw, err := b.client.Get(ctx, b.userKey(userID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user revocation: %w", err)
	}
	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse revocation cut-off: %w", err)
	}
	return issuedAt.Unix() <= time.UnixMilli(cutoff).Unix(), nil
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// InMemoryTokenBlacklist is the single-instance fallback used when Redis is disabled
type InMemoryTokenBlacklist struct {
	mu      sync.Mutex
	now     func() time.Time
	jtis    map[string]time.Time
	cutoffs map[uuid.UUID]time.Time
}

// NewInMemoryTokenBlacklist creates an empty blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		now:     time.Now,
		jtis:    make(map[string]time.Time),
		cutoffs: make(map[uuid.UUID]time.Time),
	}
}

// Revoke remembers the jti until ttl passes
func (b *InMemoryTokenBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.jtis[jti] = b.now().Add(ttl)
	return nil
}

// IsRevoked checks a jti and drops expired entries
func (b *InMemoryTokenBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	until, ok := b.jtis[jti]
	if !ok {
		return false, nil
	}
	if b.now().After(until) {
		delete(b.jtis, jti)
		return false, nil
	}
	return true, nil
}

// RevokeUser records the cut-off. ttl is ignored; entries live as long as the process.
func (b *InMemoryTokenBlacklist) RevokeUser(_ context.Context, userID uuid.UUID, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cutoffs[userID] = b.now()
	return nil
}

// IsUserRevoked compares at second precision like the Redis implementation
func (b *InMemoryTokenBlacklist) IsUserRevoked(_ context.Context, userID uuid.UUID, issuedAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cutoff, ok := b.cutoffs[userID]
	if !ok {
		return false, nil
	}
	return issuedAt.Unix() <= cutoff.Unix(), nil
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
