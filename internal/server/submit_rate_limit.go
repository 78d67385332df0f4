package server

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/quoteflow/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/quoteflow/internal/observability/metrics"
	"go.uber.org/zap"
)

const (
	rateLimitReasonClientRate         = "client-rate"
	rateLimitReasonSessionConcurrency = "session-concurrency"
)

// QuoteSubmitRateLimit throttles quotation submission per client IP and
// serialises concurrent submits of one session across replicas.
func (s *Server) QuoteSubmitRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.submitLimiter == nil || !s.submitLimiter.Enabled() {
			c.Next()
			return
		}

		endpoint := normalizeRateLimitEndpoint(c)
		ctx := c.Request.Context()

		result, err := s.submitLimiter.AllowClient(ctx, c.ClientIP())
		if err != nil {
			logger.FromContext(ctx).Warn("quote submit client rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
		if !result.Allowed {
			denyQuoteSubmit(c, endpoint, rateLimitReasonClientRate, result.RetryAfter, s.obsMetrics)
			return
		}

		id := sessionID(c)
		lease, acquired, err := s.submitLimiter.TryLockSession(ctx, id)
		if err != nil {
			logger.FromContext(ctx).Warn("quote submit session lock failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
		if !acquired {
			denyQuoteSubmit(c, endpoint, rateLimitReasonSessionConcurrency, time.Second, s.obsMetrics)
			return
		}
		defer func() {
			if err := s.submitLimiter.ReleaseSession(ctx, lease); err != nil {
				logger.FromContext(ctx).Warn("quote submit session unlock failed", zap.Error(err))
			}
		}()

		recordRateLimitAllowed(ctx, endpoint, s.obsMetrics)
		c.Next()
	}
}

func denyQuoteSubmit(c *gin.Context, endpoint, reason string, retryAfter time.Duration, metrics *obsmetrics.Metrics) {
	ctx := c.Request.Context()
	logger.FromContext(ctx).Warn("quote submit rate limit exceeded",
		zap.String("reason", reason),
		zap.String("endpoint", endpoint),
	)
	recordRateLimitDenied(ctx, endpoint, reason, metrics)

	c.Header("Retry-After", retryAfterSeconds(retryAfter))
	c.Header("X-Rate-Limited-Reason", reason)
	AbortWithError(c, ErrRateLimited)
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func recordRateLimitAllowed(ctx context.Context, endpoint string, metrics *obsmetrics.Metrics) {
	if metrics == nil {
		return
	}
	metrics.RecordRateLimitAllowed(ctx, endpoint)
}

func recordRateLimitDenied(ctx context.Context, endpoint, reason string, metrics *obsmetrics.Metrics) {
	if metrics == nil {
		return
	}
	metrics.RecordRateLimitDenied(ctx, endpoint, reason)
}

func normalizeRateLimitEndpoint(c *gin.Context) string {
	if c == nil {
		return "unknown"
	}
	endpoint := strings.TrimSpace(c.FullPath())
	if endpoint == "" {
		endpoint = strings.TrimSpace(c.Request.URL.Path)
	}
	if endpoint == "" {
		endpoint = "unknown"
	}
	return endpoint
}
