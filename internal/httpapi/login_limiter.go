package httpapi

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// loginLimiter throttles login attempts per key: a bucket of max tokens with
// one token returned per window, so a key gets at most max attempts in any
// window plus one per elapsed window after that.
type loginLimiter struct {
	mu       sync.Mutex
	window   time.Duration
	max      int
	entries  map[string]*limiterEntry
	lastPass time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLoginLimiter() *loginLimiter {
	return &loginLimiter{
		window:  5 * time.Minute,
		max:     10,
		entries: make(map[string]*limiterEntry),
	}
}

func (l *loginLimiter) Allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Every(l.window), l.max)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// sweep drops keys idle for a full window at most once per window. A key
// that comes back afterwards starts with a fresh bucket, as it would under a
// sliding window.
func (l *loginLimiter) sweep(now time.Time) {
	if now.Sub(l.lastPass) < l.window {
		return
	}
	l.lastPass = now
	for k, e := range l.entries {
		if now.Sub(e.lastSeen) >= l.window {
			delete(l.entries, k)
		}
	}
}
