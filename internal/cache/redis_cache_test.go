package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real redis when REDIS_URL is set.
func TestRedisCache_Integration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if testing.Short() || redisURL == "" {
		t.Skip("Skipping redis integration test")
	}

	opt, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	defer client.Close()

	ctx := context.Background()
	c := NewRedisCache(client, utils.NewDiscardLogger())

	type payload struct {
		Name string `json:"name"`
	}

	require.NoError(t, c.Set(ctx, "test:cache:a", payload{Name: "a"}, time.Minute))
	require.NoError(t, c.Set(ctx, "test:cache:b", payload{Name: "b"}, time.Minute))

	var got payload
	require.NoError(t, c.Get(ctx, "test:cache:a", &got))
	assert.Equal(t, "a", got.Name)

	require.NoError(t, c.DeletePattern(ctx, "test:cache:*"))
	assert.ErrorIs(t, c.Get(ctx, "test:cache:b", &got), ErrCacheMiss)
}
