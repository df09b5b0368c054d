package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ReportCache stores JSON-encoded report results for a limited time
type ReportCache interface {
	// Get decodes the cached value into dest and reports whether it was found
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Key hashes a namespace and an arbitrary key material into a cache key
func Key(namespace string, material any) (string, error) {
	raw, err := json.Marshal(material)
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}
	sum := sha256.Sum256(raw)
	return namespace + ":" + hex.EncodeToString(sum[:]), nil
}

const reportKeyPrefix = "erp:report:"

// RedisReportCache shares cached reports between API instances
type RedisReportCache struct {
	client redis.UniversalClient
}

// NewRedisReportCache creates a cache on an existing Redis client
func NewRedisReportCache(client redis.UniversalClient) *RedisReportCache {
	return &RedisReportCache{client: client}
}

// Get reads and decodes a cached value
func (c *RedisReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, reportKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read report cache: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode report cache: %w", err)
	}
	return true, nil
}

// Set encodes and stores a value
func (c *RedisReportCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode report cache: %w", err)
	}
	if err := c.client.Set(ctx, reportKeyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("write report cache: %w", err)
	}
	return nil
}

var _ ReportCache = (*RedisReportCache)(nil)

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// InMemoryReportCache is a process-local cache used when Redis is disabled
type InMemoryReportCache struct {
	mu       sync.Mutex
	now      func() time.Time
	entries  map[string]memoryEntry
	maxItems int
}

// NewInMemoryReportCache creates a cache holding at most maxItems entries
func NewInMemoryReportCache(maxItems int) *InMemoryReportCache {
	if maxItems <= 0 {
		maxItems = 1000
	}
	return &InMemoryReportCache{now: time.Now, entries: make(map[string]memoryEntry), maxItems: maxItems}
}

// Get decodes a live entry
func (c *InMemoryReportCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.raw, dest); err != nil {
		return false, fmt.Errorf("decode report cache: %w", err)
	}
	return true, nil
}

// Set stores an entry, evicting expired ones first and an arbitrary one when still full
func (c *InMemoryReportCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode report cache: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxItems {
		for k, e := range c.entries {
			if !now.Before(e.expiresAt) {
				delete(c.entries, k)
			}
		}
		for k := range c.entries {
			if len(c.entries) < c.maxItems {
				break
			}
			delete(c.entries, k)
		}
	}
	c.entries[key] = memoryEntry{raw: raw, expiresAt: now.Add(ttl)}
	return nil
}

// Len returns the number of stored entries
func (c *InMemoryReportCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

var _ ReportCache = (*InMemoryReportCache)(nil)

// NewReportCache picks Redis when a client is available and falls back to memory
func NewReportCache(client redis.UniversalClient, logger *zap.Logger) ReportCache {
	if client != nil {
		logger.Info("Report cache backed by Redis")
		return NewRedisReportCache(client)
	}
	logger.Info("Report cache backed by process memory")
	return NewInMemoryReportCache(0)
}
