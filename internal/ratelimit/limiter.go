// Package ratelimit provides sliding-window request admission keyed by client identity.
//
// A request is admitted when, counting its own timestamp, at most Max requests from the same
// client fall inside the trailing Window. Rejected requests still occupy the window. Two
// implementations share the same semantics: SlidingWindow keeps the windows in process memory
// and RedisSlidingWindow keeps them in Redis sorted sets so that replicas share one budget.
package ratelimit

import (
	"context"
	"math"
	"sort"
	"time"
)

// Clock returns the current time. Tests inject a fake clock.
type Clock func() time.Time

// Result describes one admission decision.
type Result struct {
	Allowed bool
	// Remaining is the number of further requests the client may make inside the current window.
	Remaining int
	// RetryAfter is the wait until a request would be admitted again. Zero when Allowed.
	RetryAfter time.Duration
}

// RetryAfterSeconds returns RetryAfter rounded up to whole seconds, at least 1.
func (r Result) RetryAfterSeconds() int {
	secs := int(math.Ceil(r.RetryAfter.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// Limiter decides whether a request from key is admitted.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// decide applies the window rule to stamps, which must be sorted ascending, already pruned and
// include the current request. It returns the decision and the stamps worth keeping: no more
// than limit+1 of the newest, which is enough to reproduce every later decision.
func decide(stamps []time.Time, now time.Time, limit int, window time.Duration) (Result, []time.Time) {
	count := len(stamps)
	if limit <= 0 {
		return Result{Allowed: false, RetryAfter: window}, stamps[count-1:]
	}
	if count <= limit {
		return Result{Allowed: true, Remaining: limit - count}, stamps
	}

	if count > limit+1 {
		stamps = stamps[count-(limit+1):]
		count = limit + 1
	}

	// A new request is admitted once only limit-1 of the kept stamps remain in the window.
	retryAfter := stamps[count-limit].Add(window).Sub(now)
	if retryAfter < 0 {
		retryAfter = 0
	}

	return Result{Allowed: false, RetryAfter: retryAfter}, stamps
}

// prune drops stamps at or before now-window and inserts now in sorted position.
func prune(stamps []time.Time, now time.Time, window time.Duration) []time.Time {
	cutoff := now.Add(-window)

	first := sort.Search(len(stamps), func(i int) bool { return stamps[i].After(cutoff) })
	kept := append(stamps[:0], stamps[first:]...)

	at := sort.Search(len(kept), func(i int) bool { return kept[i].After(now) })
	kept = append(kept, time.Time{})
	copy(kept[at+1:], kept[at:])
	kept[at] = now

	return kept
}
