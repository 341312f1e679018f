package mw

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitorLimiters hands out one token bucket per client IP, created lazily on
// first sight. Buckets are never evicted; the fleet of sensors and dashboards
// hitting this service is small and fixed.
type visitorLimiters struct {
	mu       sync.Mutex
	visitors map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func (v *visitorLimiters) bucket(ip string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	lim, ok := v.visitors[ip]
	if !ok {
		lim = rate.NewLimiter(v.limit, v.burst)
		v.visitors[ip] = lim
	}
	return lim
}

// RateLimit caps request throughput per client IP. Sensors report on a fixed
// cadence and dashboards poll every couple of seconds, so sustained traffic
// above the configured rate is a misbehaving client, not load to absorb; it
// gets a 429 in the same error shape as the rest of the API.
func RateLimit(perSec float64, burst int) gin.HandlerFunc {
	v := &visitorLimiters{
		visitors: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSec),
		burst:    burst,
	}
	return func(c *gin.Context) {
		if !v.bucket(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
