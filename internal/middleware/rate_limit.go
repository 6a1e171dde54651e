package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/bookit/bookit-web/pkg/logger"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	visitorTTL      = 10 * time.Minute
	visitorCleanup  = time.Minute
	rateLimitedBody = "Demasiadas solicitudes. Intenta de nuevo en unos minutos."
)

// RateLimiter keeps one token bucket per client IP. Buckets of visitors
// that stay quiet for visitorTTL are evicted by the cache janitor.
type RateLimiter struct {
	name     string
	visitors *gocache.Cache
	mu       sync.Mutex
	r        rate.Limit
	b        int
}

// NewRateLimiter allows r requests per second per IP with bursts up to b
func NewRateLimiter(name string, r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{
		name:     name,
		visitors: gocache.New(visitorTTL, visitorCleanup),
		r:        r,
		b:        b,
	}
}

func (rl *RateLimiter) visitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.visitors.Get(ip); ok {
		limiter := v.(*rate.Limiter)
		// Touch so active visitors are not evicted mid-burst
		rl.visitors.SetDefault(ip, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(rl.r, rl.b)
	rl.visitors.SetDefault(ip, limiter)
	return limiter
}

// Middleware rejects requests over the limit with 429
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.visitor(ip).Allow() {
			logger.Warn("Rate limit exceeded",
				zap.String("limiter", rl.name),
				zap.String("client_ip", ip),
				zap.String("path", c.Request.URL.Path))

			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": rateLimitedBody,
			})
			return
		}

		c.Next()
	}
}
