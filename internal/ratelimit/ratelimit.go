// Package ratelimit provides a keyed rate limiter using token bucket algorithm.
// It supports both non-blocking (Allow) and blocking (Wait) operations.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// defaultMaxKeys caps the tracked-client map. Keys are untrusted
	// client addresses, so the map must not grow with the attacker.
	defaultMaxKeys = 16384
	// defaultIdleTTL is how long an untouched entry stays evictable-only.
	defaultIdleTTL = 10 * time.Minute
)

// KeyedRateLimiter manages per-key rate limiting.
// Each unique key gets its own independent rate limiter.
type KeyedRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	maxKeys int
	idleTTL time.Duration
	now     func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a new keyed rate limiter.
// rps: requests per second allowed.
// burst: maximum burst size (tokens available immediately).
func New(rps float64, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		clients: make(map[string]*client),
		limit:   rate.Limit(rps),
		burst:   burst,
		maxKeys: defaultMaxKeys,
		idleTTL: defaultIdleTTL,
		now:     time.Now,
	}
}

// Allow checks if a request for the given key should be allowed.
// Returns immediately without blocking. Use for inbound request protection.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Wait blocks until a request for the given key is allowed or context is canceled.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.getLimiter(key).Wait(ctx)
}

// getLimiter returns the limiter for a key, creating one if needed.
// Creation past the cap evicts idle entries first, then the stalest
// ones, so the map never outgrows maxKeys.
func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	krl.mu.Lock()
	defer krl.mu.Unlock()

	now := krl.now()
	if c, ok := krl.clients[key]; ok {
		c.lastSeen = now
		return c.limiter
	}

	if len(krl.clients) >= krl.maxKeys {
		krl.evict(now)
	}

	c := &client{
		limiter:  rate.NewLimiter(krl.limit, krl.burst),
		lastSeen: now,
	}
	krl.clients[key] = c
	return c.limiter
}

// evict removes idle entries, then the oldest remaining ones until the
// map is back under the cap. Caller holds the lock.
func (krl *KeyedRateLimiter) evict(now time.Time) {
	for key, c := range krl.clients {
		if now.Sub(c.lastSeen) > krl.idleTTL {
			delete(krl.clients, key)
		}
	}

	for len(krl.clients) >= krl.maxKeys {
		var oldestKey string
		var oldestSeen time.Time
		for key, c := range krl.clients {
			if oldestKey == "" || c.lastSeen.Before(oldestSeen) {
				oldestKey, oldestSeen = key, c.lastSeen
			}
		}
		delete(krl.clients, oldestKey)
	}
}
