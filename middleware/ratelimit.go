package middleware

import (
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Fixed-window per-IP rate limiter. The window resets lazily on the next
// request; a background ticker evicts idle clients.

type rateLimiter struct {
	clients map[string]*clientWindow
	mu      sync.Mutex
	limit   int
	window  time.Duration
}

type clientWindow struct {
	count     int
	resetTime time.Time
}

var limiter *rateLimiter

func init() {
	limit := 100
	if raw := os.Getenv("RATE_LIMIT_PER_MINUTE"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	limiter = &rateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  time.Minute,
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			limiter.cleanup()
		}
	}()
}

func RateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		limiter.mu.Lock()
		client, exists := limiter.clients[ip]
		if !exists || now.After(client.resetTime) {
			limiter.clients[ip] = &clientWindow{count: 1, resetTime: now.Add(limiter.window)}
			limiter.mu.Unlock()
			c.Next()
			return
		}

		if client.count >= limiter.limit {
			retryAfter := client.resetTime.Sub(now).Seconds()
			limiter.mu.Unlock()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": retryAfter,
			})
			return
		}

		client.count++
		limiter.mu.Unlock()
		c.Next()
	}
}

func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for ip, client := range rl.clients {
		if now.After(client.resetTime) {
			delete(rl.clients, ip)
		}
	}
}
