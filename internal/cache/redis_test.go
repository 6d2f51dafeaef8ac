package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_GetSet(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	r, err := NewRedis(ctx, addr, time.Minute)
	require.NoError(t, err)
	defer r.Close()

	key := NewKeyBuilder("github-activity-test").Build(time.Now().UnixNano())
	var got payload
	assert.ErrorIs(t, r.Get(ctx, key, &got), ErrCacheMiss)

	require.NoError(t, r.Set(ctx, key, payload{Names: []string{"x"}}))
	require.NoError(t, r.Get(ctx, key, &got))
	assert.Equal(t, []string{"x"}, got.Names)
}
