package middlewarectx

import "time"

const MaxVisitors = maxVisitors

func SetClock(l *RateLimiter, now func() time.Time) {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
}

func Allow(l *RateLimiter, key string) bool {
	return l.allow(key)
}

func Visitors(l *RateLimiter) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}
