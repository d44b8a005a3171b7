package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Ranadipgithub/CodeUP/internal/database"
	"github.com/Ranadipgithub/CodeUP/pkg/logger"
)

// SubmitCooldownTTL is the per-user window between judge-backed actions.
const SubmitCooldownTTL = 10 * time.Second

// SubmitCooldown rejects a second submit/run from the same user inside the
// cooldown window. The Redis key's TTL is the sole release mechanism; a slow
// judge call neither shortens nor extends the window. Without Redis the
// cooldown is disabled and requests proceed.
func SubmitCooldown() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userId")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		ok, err := database.AcquireCooldown("submit", userID, SubmitCooldownTTL)
		if err != nil {
			logger.Error().Err(err).Str("user_id", userID).Msg("Cooldown check failed")
			// Cooldown is an optimization; do not fail the request over it.
			c.Next()
			return
		}

		if !ok {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please wait before submitting again."})
			c.Abort()
			return
		}

		c.Next()
	}
}

// IPRateLimiter manages token-bucket limiters per client IP.
type IPRateLimiter struct {
	ips   map[string]*rateLimiterEntry
	mu    sync.Mutex
	r     rate.Limit
	burst int
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(r rate.Limit, burst int) *IPRateLimiter {
	rl := &IPRateLimiter{
		ips:   make(map[string]*rateLimiterEntry),
		r:     r,
		burst: burst,
	}
	go rl.cleanup()
	return rl
}

func (rl *IPRateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)
		rl.mu.Lock()
		for ip, entry := range rl.ips {
			if time.Since(entry.lastSeen) > 3*time.Minute {
				delete(rl.ips, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.ips[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.r, rl.burst)
		rl.ips[ip] = &rateLimiterEntry{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}

	entry.lastSeen = time.Now()
	return entry.limiter
}

var (
	// Auth endpoints: 20 requests per minute
	AuthLimiter = NewIPRateLimiter(rate.Limit(20.0/60.0), 10)

	// General API: 600 requests per minute
	GeneralLimiter = NewIPRateLimiter(rate.Limit(10.0), 50)
)

func RateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.GetLimiter(ip).Allow() {
			logger.Warn().
				Str("ip", ip).
				Str("path", c.Request.URL.Path).
				Msg("Rate limit exceeded")

			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func AuthRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(AuthLimiter)
}

func GeneralRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(GeneralLimiter)
}
