package middleware

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/seotest/config"
	"github.com/use-agent/seotest/models"
	"golang.org/x/time/rate"
)

// Identity names the bucket a request is charged to.
type Identity func(c *gin.Context) string

// ByCaller charges authenticated API calls to the caller fingerprint set by
// Auth and everything else to the client IP.
func ByCaller(c *gin.Context) string {
	if caller := c.GetString(CallerKey); caller != "" {
		return caller
	}
	return "ip:" + c.ClientIP()
}

// ByOrigin charges page requests to the site embedding the testing script,
// taken from the Origin header (or Referer when Origin is absent). Requests
// naming neither fall back to the client IP.
func ByOrigin(c *gin.Context) string {
	for _, h := range []string{"Origin", "Referer"} {
		if u, err := url.Parse(c.GetHeader(h)); err == nil && u.Host != "" {
			return "origin:" + u.Scheme + "://" + u.Host
		}
	}
	return "ip:" + c.ClientIP()
}

const (
	idleAfter     = time.Hour
	sweepInterval = 5 * time.Minute
)

// RateLimiter is a set of token buckets keyed by Identity, powered by
// golang.org/x/time/rate. Buckets idle for an hour are dropped.
type RateLimiter struct {
	cfg      config.RateLimitConfig
	identify Identity
	now      func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
	swept   time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter charging requests by identify.
func NewRateLimiter(cfg config.RateLimitConfig, identify Identity) *RateLimiter {
	return &RateLimiter{
		cfg:      cfg,
		identify: identify,
		now:      time.Now,
		buckets:  make(map[string]*bucket),
	}
}

// RateLimit is shorthand for NewRateLimiter(cfg, identify).Handler().
func RateLimit(cfg config.RateLimitConfig, identify Identity) gin.HandlerFunc {
	return NewRateLimiter(cfg, identify).Handler()
}

// Handler returns the gin middleware. Rejected requests get 429 with a
// Retry-After hint.
func (l *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.allow(l.identify(c)) {
			c.Next()
			return
		}

		c.Header("Retry-After", strconv.Itoa(l.retryAfter()))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
			Error: &models.ErrorDetail{
				Code:    models.ErrCodeRateLimited,
				Message: "rate limit exceeded, please slow down",
			},
		})
	}
}

// Len reports the number of live buckets.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *RateLimiter) allow(identity string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Idle buckets are swept on the request path.
	if now.Sub(l.swept) >= sweepInterval {
		for id, b := range l.buckets {
			if now.Sub(b.lastSeen) >= idleAfter {
				delete(l.buckets, id)
			}
		}
		l.swept = now
	}

	b, ok := l.buckets[identity]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(l.cfg.RequestsPerSecond), l.cfg.Burst)}
		l.buckets[identity] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// retryAfter is the whole number of seconds until one token refills.
func (l *RateLimiter) retryAfter() int {
	if l.cfg.RequestsPerSecond <= 0 {
		return int(idleAfter / time.Second)
	}
	secs := math.Ceil(1 / l.cfg.RequestsPerSecond)
	if secs > float64(idleAfter/time.Second) {
		return int(idleAfter / time.Second)
	}
	return int(secs)
}
