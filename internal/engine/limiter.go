package engine

import (
	"sync"
	"time"
)

// Limiter enforces global and per-user limits on generation calls so one
// noisy identity cannot starve the service.
type Limiter struct {
	mu           sync.Mutex
	perMinute    []time.Time
	perHour      []time.Time
	maxPerMinute int
	maxPerHour   int
	userCooldown time.Duration
	lastByUser   map[string]time.Time
}

// DefaultLimiter returns a limiter: 30/min, 600/hour, 2s per-user cooldown.
func DefaultLimiter() *Limiter {
	return NewLimiter(30, 600, 2*time.Second)
}

func NewLimiter(maxPerMinute, maxPerHour int, userCooldown time.Duration) *Limiter {
	return &Limiter{
		perMinute:    make([]time.Time, 0, 64),
		perHour:      make([]time.Time, 0, 256),
		maxPerMinute: maxPerMinute,
		maxPerHour:   maxPerHour,
		userCooldown: userCooldown,
		lastByUser:   make(map[string]time.Time),
	}
}

// Allow reports whether a generation call may run for userID at now.
func (l *Limiter) Allow(userID string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if last, ok := l.lastByUser[userID]; ok && now.Sub(last) < l.userCooldown {
		return false
	}

	cutMin := now.Add(-time.Minute)
	cutHour := now.Add(-time.Hour)
	l.perMinute = trimBefore(l.perMinute, cutMin)
	l.perHour = trimBefore(l.perHour, cutHour)

	return len(l.perMinute) < l.maxPerMinute && len(l.perHour) < l.maxPerHour
}

// Record notes that a generation call was made. Call after a successful
// Generate.
func (l *Limiter) Record(userID string, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.perMinute = append(l.perMinute, now)
	l.perHour = append(l.perHour, now)
	l.lastByUser[userID] = now
}

func trimBefore(ts []time.Time, cutoff time.Time) []time.Time {
	out := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			out = append(out, t)
		}
	}
	return out
}
