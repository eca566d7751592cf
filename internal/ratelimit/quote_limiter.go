package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/wardrobers/backend-api-sub000/internal/config"
	"github.com/wardrobers/backend-api-sub000/internal/observability/metrics"
)

type QuoteLimiterParams struct {
	fx.In

	Log     *zap.Logger
	Cfg     config.Config
	Bucket  *TokenBucket     `optional:"true"`
	Metrics *metrics.Metrics `optional:"true"`
}

// QuoteLimiter throttles quote requests per client. Without redis it
// is a pass-through, and redis errors fail open: a broken limiter must
// not take pricing down.
type QuoteLimiter struct {
	log     *zap.Logger
	bucket  *TokenBucket
	metrics *metrics.Metrics
	rate    float64
	burst   int
}

func NewQuoteLimiter(p QuoteLimiterParams) *QuoteLimiter {
	return &QuoteLimiter{
		log:     p.Log.Named("ratelimit.quote"),
		bucket:  p.Bucket,
		metrics: p.Metrics,
		rate:    p.Cfg.QuoteRateLimit,
		burst:   p.Cfg.QuoteRateBurst,
	}
}

func (l *QuoteLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.bucket == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:quote:%s", c.ClientIP())
		res, err := l.bucket.Allow(c.Request.Context(), key, l.rate, l.burst)
		if err != nil {
			l.log.Warn("rate limit check failed, allowing request", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			l.metrics.RecordRateLimitDenied(c.Request.Context(), "quote", "bucket_empty")
			if res.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    "rate_limited",
				"message": "too many pricing requests",
			})
			return
		}

		l.metrics.RecordRateLimitAllowed(c.Request.Context(), "quote")
		c.Next()
	}
}
