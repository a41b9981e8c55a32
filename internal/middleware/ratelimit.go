package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coah80/docxify/internal/util"
)

const maxRateLimitEntries = 100000

// RateLimiter is a sliding-window limiter keyed by client IP.
type RateLimiter struct {
	window time.Duration
	max    int
	now    func() time.Time

	mu    sync.Mutex
	store map[string][]time.Time
}

// NewRateLimiter allows max requests per window per IP. max <= 0 disables it.
func NewRateLimiter(window time.Duration, max int) *RateLimiter {
	return &RateLimiter{
		window: window,
		max:    max,
		now:    time.Now,
		store:  make(map[string][]time.Time),
	}
}

func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	if l.max <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := util.GetClientIP(r)
		allowed, remaining, resetIn := l.check(ip)

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", l.max))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if !allowed {
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetIn))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"message": "Too many requests. Please slow down.",
				"resetIn": resetIn,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) check(ip string) (allowed bool, remaining int, resetIn int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	filtered := l.prune(l.store[ip], now)

	if len(filtered) >= l.max {
		resetSec := int(filtered[0].Add(l.window).Sub(now).Seconds()) + 1
		l.store[ip] = filtered
		return false, 0, resetSec
	}

	if _, known := l.store[ip]; !known && len(l.store) >= maxRateLimitEntries {
		return false, 0, int(l.window.Seconds())
	}

	filtered = append(filtered, now)
	l.store[ip] = filtered
	return true, l.max - len(filtered), 0
}

func (l *RateLimiter) prune(requests []time.Time, now time.Time) []time.Time {
	windowStart := now.Add(-l.window)
	filtered := requests[:0]
	for _, t := range requests {
		if t.After(windowStart) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// StartCleanup drops idle IPs once a minute until ctx is done.
func (l *RateLimiter) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.sweepIdle()
			}
		}
	}()
}

func (l *RateLimiter) sweepIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for ip, requests := range l.store {
		filtered := l.prune(requests, now)
		if len(filtered) == 0 {
			delete(l.store, ip)
		} else {
			l.store[ip] = filtered
		}
	}
}
