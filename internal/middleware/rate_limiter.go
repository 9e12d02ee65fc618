package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter implements a simple token bucket rate limiter. With refillRate
// equal to maxTokens it behaves as a fixed window of refillPeriod.
type RateLimiter struct {
	mu           sync.Mutex
	tokens       map[string]int
	lastRefill   map[string]time.Time
	maxTokens    int
	refillRate   int           // tokens per refill
	refillPeriod time.Duration // how often to refill
	lastSweep    time.Time
}

// NewWindowLimiter allows limit requests per key in each window.
func NewWindowLimiter(limit int, window time.Duration) *RateLimiter {
	return NewRateLimiter(limit, limit, window)
}

// NewRateLimiter creates a new rate limiter
// maxTokens: maximum tokens per user
// refillRate: how many tokens to add per refill period
// refillPeriod: how often to refill tokens
func NewRateLimiter(maxTokens, refillRate int, refillPeriod time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:       make(map[string]int),
		lastRefill:   make(map[string]time.Time),
		maxTokens:    maxTokens,
		refillRate:   refillRate,
		refillPeriod: refillPeriod,
	}
}

// Allow checks if a request should be allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.sweep(now)

	// Initialize if first time
	if _, exists := rl.tokens[key]; !exists {
		rl.tokens[key] = rl.maxTokens
		rl.lastRefill[key] = now
	}

	// Refill tokens
	elapsed := now.Sub(rl.lastRefill[key])
	refills := int(elapsed / rl.refillPeriod)
	if refills > 0 {
		rl.tokens[key] += refills * rl.refillRate
		if rl.tokens[key] > rl.maxTokens {
			rl.tokens[key] = rl.maxTokens
		}
		rl.lastRefill[key] = rl.lastRefill[key].Add(time.Duration(refills) * rl.refillPeriod)
	}

	// Check if we have tokens
	if rl.tokens[key] > 0 {
		rl.tokens[key]--
		return true
	}

	return false
}

// fullAfter is how long an untouched key takes to refill completely.
func (rl *RateLimiter) fullAfter() time.Duration {
	if rl.refillRate <= 0 {
		return rl.refillPeriod
	}
	periods := (rl.maxTokens + rl.refillRate - 1) / rl.refillRate
	return time.Duration(periods) * rl.refillPeriod
}

// sweep drops keys that would be back at maxTokens anyway. It walks the map
// at most once per refillPeriod. Callers hold mu.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.refillPeriod {
		return
	}
	rl.lastSweep = now
	idle := rl.fullAfter()
	for key, last := range rl.lastRefill {
		if now.Sub(last) >= idle {
			delete(rl.tokens, key)
			delete(rl.lastRefill, key)
		}
	}
}

// Len reports how many keys are currently tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.tokens)
}

// Remaining returns the remaining tokens for a key
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.tokens[key]
}

// RateLimitMiddleware creates a rate limiting middleware. Mounted after Auth
// it keys on the user ID; otherwise on the client IP.
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, ok := GetUserID(c); ok {
			key = userID.String()
		}

		allowed := rl.Allow(key)
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.maxTokens))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.Remaining(key)))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(rl.refillPeriod.Seconds())))
			RespondErrorWithRetry(c, http.StatusTooManyRequests, ErrCodeRateLimited,
				"Too many requests, please try again later", int(rl.refillPeriod.Milliseconds()))
			return
		}

		c.Next()
	}
}
