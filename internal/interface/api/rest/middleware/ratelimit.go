package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type (
	// RateLimiter is a fixed-window limiter keyed by client ip.
	RateLimiter struct {
		cache    *cache.Cache
		requests int
		window   time.Duration
		nowFunc  func() time.Time
		logger   *zap.Logger
		mCounter *prometheus.CounterVec
		mutex    sync.Mutex
	}
	rateLimitEntry struct {
		Count     int
		ResetTime time.Time
	}
)

func NewRateLimiter(requests int, window time.Duration, logger *zap.Logger, mCounter *prometheus.CounterVec) *RateLimiter {
	return &RateLimiter{
		cache:    cache.New(window, 2*window),
		requests: requests,
		window:   window,
		nowFunc:  time.Now,
		logger:   logger,
		mCounter: mCounter,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rate_limit:" + c.ClientIP()

		allowed, remaining, resetTime := rl.allow(key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.mCounter != nil {
				rl.mCounter.WithLabelValues("rate_limited_total").Inc()
			}
			rl.logger.Warn("rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.FullPath()),
			)

			retryAfter := int(math.Ceil(resetTime.Sub(rl.nowFunc()).Seconds()))
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) allow(key string) (bool, int, time.Time) {
	now := rl.nowFunc()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if v, found := rl.cache.Get(key); found {
		entry := v.(rateLimitEntry)
		if now.Before(entry.ResetTime) {
			if entry.Count >= rl.requests {
				return false, 0, entry.ResetTime
			}
			entry.Count++
			rl.cache.Set(key, entry, entry.ResetTime.Sub(now))
			return true, rl.requests - entry.Count, entry.ResetTime
		}
	}

	resetTime := now.Add(rl.window)
	rl.cache.Set(key, rateLimitEntry{Count: 1, ResetTime: resetTime}, rl.window)

	return true, rl.requests - 1, resetTime
}
