package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/vacantes/internal/app/models/dto"
	"github.com/yigit/vacantes/internal/pkg/metrics"
	"github.com/yigit/vacantes/internal/pkg/ratelimit"
)

// RateLimit throttles an authenticated action per caller, keyed
// "<scope>:<role>:<id>". Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter, scope string, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			c.Next()
			return
		}

		key := scope + ":" + caller.String()
		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if !allowed {
			metrics.RecordRateLimited(scope)
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeRateLimited, "Too many requests").
				WithSeverity(dto.ErrorSeverityWarning)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}
