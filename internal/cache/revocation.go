package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList remembers logged-out token ids until the tokens expire.
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList returns nil when client is nil.
func NewRevocationList(client *redis.Client) *RevocationList {
	if client == nil {
		return nil
	}
	return &RevocationList{client: client}
}

// Revoke marks tokenID revoked until expiresAt. Already expired tokens are
// ignored.
func (r *RevocationList) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if r == nil || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedKey(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID was revoked.
func (r *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if r == nil || tokenID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}

func revokedKey(tokenID string) string {
	return keyPrefix + "revoked:" + tokenID
}
