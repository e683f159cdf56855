package testing

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

// GetRedisClientAndCtx connects to the redis named by NUTRIBOT_TEST_REDIS_HOST
// and skips the test when it is not set. The client is closed and the test db
// flushed on cleanup.
func GetRedisClientAndCtx(t *testing.T) (context.Context, *redis.Client) {
	t.Helper()

	redisHost := os.Getenv("NUTRIBOT_TEST_REDIS_HOST")
	if redisHost == "" {
		t.Skip("NUTRIBOT_TEST_REDIS_HOST not set, skipping redis test")
	}
	t.Logf("using redis host: [%s]", redisHost)

	redisPort := os.Getenv("NUTRIBOT_TEST_REDIS_PORT")
	if redisPort == "" {
		redisPort = "6379"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(redisHost, redisPort),
		Password: os.Getenv("NUTRIBOT_TEST_REDIS_PASS"),
		DB:       15, // keep away from the bot's default db
	})

	pingRes, err := rdb.Ping(ctx).Result()
	require.NoError(t, err)
	t.Logf("redis ping res: %s", pingRes)

	t.Cleanup(func() {
		require.NoError(t, rdb.FlushDB(context.Background()).Err())
		require.NoError(t, rdb.Close())
	})

	return ctx, rdb
}
