package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SlidingWindow is an in-process sliding-window limiter. Each client has its own window guarded
// by its own mutex; requests for different clients never contend.
type SlidingWindow struct {
	max     int
	window  time.Duration
	now     Clock
	clients sync.Map // map[string]*clientWindow
}

// clientWindow holds the recent request timestamps of one client.
type clientWindow struct {
	mu     sync.Mutex
	stamps []time.Time
	// reaped is set when the window was removed from the map; holders must retry the lookup.
	reaped bool
}

// NewSlidingWindow creates a limiter admitting maxRequests requests per client per window.
// A nil clock uses time.Now.
func NewSlidingWindow(maxRequests int, window time.Duration, clock Clock) *SlidingWindow {
	if clock == nil {
		clock = time.Now
	}
	return &SlidingWindow{
		max:    maxRequests,
		window: window,
		now:    clock,
	}
}

// Allow admits or rejects a request from key at the limiter's current time.
func (l *SlidingWindow) Allow(_ context.Context, key string) (Result, error) {
	return l.Admit(key, l.now()), nil
}

// Admit records a request from clientID at now and reports whether it is admitted.
func (l *SlidingWindow) Admit(clientID string, now time.Time) Result {
	for {
		val, _ := l.clients.LoadOrStore(clientID, &clientWindow{})
		cw := val.(*clientWindow)

		cw.mu.Lock()
		if cw.reaped {
			cw.mu.Unlock()
			continue
		}

		var result Result
		cw.stamps = prune(cw.stamps, now, l.window)
		result, cw.stamps = decide(cw.stamps, now, l.max, l.window)
		cw.mu.Unlock()

		return result
	}
}

// Reap removes clients whose windows hold no timestamp newer than now-window.
// It returns the number of clients removed.
func (l *SlidingWindow) Reap(now time.Time) int {
	cutoff := now.Add(-l.window)
	removed := 0

	l.clients.Range(func(key, value any) bool {
		if l.reapClient(key, value.(*clientWindow), cutoff) {
			removed++
		}
		return true
	})

	return removed
}

// reapClient removes cw from the map if it is idle at cutoff and is still the window stored
// under key. A window stored after cw was loaded is never removed.
func (l *SlidingWindow) reapClient(key any, cw *clientWindow, cutoff time.Time) bool {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.reaped {
		return false
	}
	if len(cw.stamps) > 0 && cw.stamps[len(cw.stamps)-1].After(cutoff) {
		return false
	}
	if !l.clients.CompareAndDelete(key, cw) {
		return false
	}

	cw.reaped = true
	cw.stamps = nil
	return true
}

// Clients returns the number of tracked clients.
func (l *SlidingWindow) Clients() int {
	n := 0
	l.clients.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Run reaps idle clients every interval until ctx is cancelled.
func (l *SlidingWindow) Run(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := l.Reap(l.now()); removed > 0 {
				logger.Debug("rate limiter reaped idle clients", slog.Int("removed", removed))
			}
		}
	}
}
