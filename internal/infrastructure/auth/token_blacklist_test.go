package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryTokenBlacklist()

	blacklisted, err := b.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	require.NoError(t, b.AddToBlacklist(ctx, "jti-1", time.Hour))

	blacklisted, err = b.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, blacklisted)
}

func TestMemoryTokenBlacklist_ExpiredTTLIgnored(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryTokenBlacklist()

	// A token that is already expired has nothing left to revoke
	require.NoError(t, b.AddToBlacklist(ctx, "jti-1", -time.Minute))

	blacklisted, err := b.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestMemoryTokenBlacklist_EntryExpires(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryTokenBlacklist()

	require.NoError(t, b.AddToBlacklist(ctx, "jti-1", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	blacklisted, err := b.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}
