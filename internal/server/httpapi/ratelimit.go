package httpapi

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// cleanupInterval is how often idle buckets are evicted.
const cleanupInterval = 2 * time.Minute

// RateLimiter is an in-memory token bucket keyed by client IP. Each key gets
// `perMinute` tokens per minute with a burst of the same size; a background
// goroutine evicts buckets that have fully refilled, so the map stays
// bounded by the set of recently active clients.
type RateLimiter struct {
	mu      sync.Mutex
	rate    float64 // tokens per second
	burst   float64
	buckets map[string]*bucket
	stopC   chan struct{}

	now func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	l := &RateLimiter{
		rate:    float64(perMinute) / 60.0,
		burst:   float64(perMinute),
		buckets: make(map[string]*bucket),
		stopC:   make(chan struct{}),
		now:     time.Now,
	}

	go l.cleanup()

	return l
}

func (l *RateLimiter) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evictIdleBuckets()
		case <-l.stopC:
			return
		}
	}
}

// evictIdleBuckets drops every bucket that has been idle long enough to
// refill completely; dropping it cannot change any Allow decision.
func (l *RateLimiter) evictIdleBuckets() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, b := range l.buckets {
		if now.Sub(b.last).Seconds()*l.rate >= l.burst {
			delete(l.buckets, key)
		}
	}
}

// Stop terminates the cleanup goroutine.
func (l *RateLimiter) Stop() {
	close(l.stopC)
}

// Allow reports whether a request under key may proceed, consuming one token
// if so.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst, last: now}
		l.buckets[key] = b
	}

	b.tokens += now.Sub(b.last).Seconds() * l.rate
	if b.tokens > l.burst {
		b.tokens = l.burst
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Wrap applies the limiter to a handler, keying by client IP. ProxyHeaders
// upstream rewrites RemoteAddr from X-Forwarded-For, so the key survives
// reverse proxies.
func (l *RateLimiter) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Detail: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
