package mw

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientRateLimiter stores a rate limiter per caller. Callers are keyed by
// user id when the identity header is present, falling back to client IP.
type clientRateLimiter struct {
	clients map[string]*rate.Limiter
	mu      sync.Mutex
	r       rate.Limit
	b       int
}

func newClientRateLimiter(r rate.Limit, b int) *clientRateLimiter {
	return &clientRateLimiter{
		clients: make(map[string]*rate.Limiter),
		r:       r,
		b:       b,
	}
}

func (l *clientRateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.clients[key]
	if !ok {
		limiter = rate.NewLimiter(l.r, l.b)
		l.clients[key] = limiter
	}
	return limiter
}

// RateLimiter is a middleware limiting request rates per caller.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiter := newClientRateLimiter(r, b)
	return func(c *gin.Context) {
		key := c.GetHeader(UserIDHeader)
		if key == "" {
			key = c.ClientIP()
		}
		if !limiter.limiter(key).Allow() {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
