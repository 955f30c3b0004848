// Package cache keeps computed dashboards and revoked token ids in Redis. Every
// type here treats a nil receiver or a nil client as "cache disabled".
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix        = "crm:"
	dashboardVersion = keyPrefix + "dashboard:version"
)

// DashboardCache stores rendered dashboard payloads. Entries are keyed by a
// generation counter, so bumping the counter invalidates every entry at once
// and stale ones expire on their TTL.
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDashboardCache returns nil when client is nil or ttl is not positive.
func NewDashboardCache(client *redis.Client, ttl time.Duration) *DashboardCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &DashboardCache{client: client, ttl: ttl}
}

// Get decodes the entry for parts into dest. It reports false on a miss.
func (c *DashboardCache) Get(ctx context.Context, dest any, parts ...string) (bool, error) {
	if c == nil {
		return false, nil
	}
	key, err := c.key(ctx, parts)
	if err != nil {
		return false, err
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache decode: %w", err)
	}
	return true, nil
}

// Set stores value under parts for the configured TTL.
func (c *DashboardCache) Set(ctx context.Context, value any, parts ...string) error {
	if c == nil {
		return nil
	}
	key, err := c.key(ctx, parts)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops every cached dashboard.
func (c *DashboardCache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.client.Incr(ctx, dashboardVersion).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (c *DashboardCache) key(ctx context.Context, parts []string) (string, error) {
	version, err := c.client.Get(ctx, dashboardVersion).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("cache version: %w", err)
	}
	return DashboardKey(version, parts...), nil
}

// DashboardKey builds the entry key of a generation and a list of key parts.
// Parts are hashed so arbitrary filter values stay within key limits.
func DashboardKey(version int64, parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, "\x1f")))
	return fmt.Sprintf("%sdashboard:v%d:%s", keyPrefix, version, hex.EncodeToString(sum[:]))
}
