package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisSlidingWindow is a sliding-window limiter shared across replicas. Each client's window is a
// sorted set of request timestamps in microseconds.
type RedisSlidingWindow struct {
	client redis.UniversalClient
	prefix string
	max    int
	window time.Duration
	now    Clock
}

// NewRedisSlidingWindow creates a distributed limiter. A nil clock uses time.Now.
func NewRedisSlidingWindow(
	client redis.UniversalClient,
	prefix string,
	maxRequests int,
	window time.Duration,
	clock Clock,
) *RedisSlidingWindow {
	if clock == nil {
		clock = time.Now
	}
	return &RedisSlidingWindow{
		client: client,
		prefix: prefix,
		max:    maxRequests,
		window: window,
		now:    clock,
	}
}

func (l *RedisSlidingWindow) key(k string) string {
	if l.prefix == "" {
		return "rl:" + k
	}
	return l.prefix + ":rl:" + k
}

// Allow records the request in the client's sorted set and applies the window rule atomically.
func (l *RedisSlidingWindow) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now()
	redisKey := l.key(key)
	cutoff := now.Add(-l.window).UnixMicro()
	member := fmt.Sprintf("%d-%s", now.UnixMicro(), uuid.NewString())

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", strconv.FormatInt(cutoff, 10))
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixMicro()), Member: member})
	// Keep only the newest max+1 entries.
	pipe.ZRemRangeByRank(ctx, redisKey, 0, int64(-(l.max + 2)))
	card := pipe.ZCard(ctx, redisKey)
	pipe.PExpire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	count := int(card.Val())
	if count <= l.max {
		return Result{Allowed: true, Remaining: l.max - count}, nil
	}

	// The entry at rank count-max has to age out before a request fits again.
	oldest, err := l.client.ZRangeWithScores(ctx, redisKey, int64(count-l.max), int64(count-l.max)).Result()
	if err != nil {
		return Result{}, err
	}

	retryAfter := l.window
	if len(oldest) == 1 {
		retryAfter = time.UnixMicro(int64(oldest[0].Score)).Add(l.window).Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
	}

	return Result{Allowed: false, RetryAfter: retryAfter}, nil
}
