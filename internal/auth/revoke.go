package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "blacklist:"

// Revocations records logged-out token IDs in Redis until they would expire anyway.
// A nil client disables revocation.
type Revocations struct {
	client *redis.Client
}

func NewRevocations(client *redis.Client) *Revocations {
	return &Revocations{client: client}
}

// Revoke blacklists jti until expiresAt.
func (r *Revocations) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if r == nil || r.client == nil || jti == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked fails open: a Redis error reports the token as valid.
func (r *Revocations) IsRevoked(ctx context.Context, jti string) bool {
	if r == nil || r.client == nil || jti == "" {
		return false
	}
	n, err := r.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	return err == nil && n > 0
}
