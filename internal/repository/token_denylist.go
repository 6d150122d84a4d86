package repository

import (
	"context"
	"time"
)

// TokenDenylist records revoked refresh-token IDs until they would have
// expired anyway.
// Implementations: Redis (multi-instance) or in-memory (single instance).
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
