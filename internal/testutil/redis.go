package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const defaultRedisTestAddr = "localhost:6380"

// GetRedisTestAddr returns the Redis test address, checking TEST_REDIS_ADDR first.
func GetRedisTestAddr() string {
	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		return addr
	}
	return defaultRedisTestAddr
}

// SetupRedis returns a Redis client for the test instance, skipping the test when it is not
// reachable. The client is closed when the test finishes.
func SetupRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: GetRedisTestAddr()})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available: %v", err)
	}

	t.Cleanup(func() {
		require.NoError(t, client.Close(), "failed to close redis client")
	})

	return client
}

// UnreachableRedis returns a Redis client pointed at a closed port with short timeouts.
func UnreachableRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	return client
}
