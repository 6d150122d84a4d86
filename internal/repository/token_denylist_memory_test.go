package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenDenylist(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	d := NewMemoryTokenDenylist().(*memoryTokenDenylist)
	d.now = func() time.Time { return now }

	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, d.Revoke(ctx, "jti-1", time.Hour))
	revoked, err = d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, d.Revoke(ctx, "expired", 0))
	revoked, _ = d.IsRevoked(ctx, "expired")
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, _ = d.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked)
}
