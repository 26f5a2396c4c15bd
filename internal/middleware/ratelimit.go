package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	pkgredis "github.com/coachly/backend-auth/pkg/redis"
	"github.com/coachly/backend-auth/pkg/response"
)

// RateLimitConfig holds configuration for the login rate limiter.
type RateLimitConfig struct {
	Redis     *pkgredis.Client
	KeyPrefix string
	// Requests allowed per window, per client IP.
	Limit  int
	Window time.Duration
}

// DefaultLoginRateLimit returns the limiter config for credential
// endpoints. The window is deliberately tight to slow down password
// guessing without locking out a shared NAT.
func DefaultLoginRateLimit(client *pkgredis.Client) *RateLimitConfig {
	return &RateLimitConfig{
		Redis:     client,
		KeyPrefix: "ratelimit:login:",
		Limit:     10,
		Window:    time.Minute,
	}
}

// Atomic fixed-window counter. Returns the count after increment.
const rateLimitScript = `
local key = KEYS[1]
local window = tonumber(ARGV[1])
local count = redis.call("INCR", key)
if count == 1 then
    redis.call("EXPIRE", key, window)
end
return count
`

// RateLimit throttles requests per client IP using Redis so the limit
// holds across replicas. Redis failures fail open.
func RateLimit(config *RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := config.KeyPrefix + c.ClientIP()
		windowSec := int(config.Window.Seconds())

		result, err := config.Redis.Eval(c.Request.Context(), rateLimitScript, []string{key}, windowSec)
		if err != nil {
			c.Next()
			return
		}

		count, ok := result.(int64)
		if !ok {
			c.Next()
			return
		}

		if count > int64(config.Limit) {
			c.Header("Retry-After", strconv.Itoa(windowSec))
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, slow down", "")
			c.Abort()
			return
		}

		c.Next()
	}
}
