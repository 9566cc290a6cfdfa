package revocation

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a live server only when MEDINVEST_TEST_REDIS_ADDR is set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("MEDINVEST_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MEDINVEST_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	s, closeFn, err := Dial(ctx, addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	jti := uuid.NewString()

	revoked, err := s.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, jti, time.Now().Add(time.Minute)))

	revoked, err = s.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := s.rdb.TTL(ctx, keyPrefix+jti).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestDial_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, _, err := Dial(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

func TestRedisStore_RevokePastIsNoop(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = rdb.Close() })

	s := NewRedisStore(rdb)
	assert.NoError(t, s.Revoke(context.Background(), "j", time.Now().Add(-time.Second)))
}
