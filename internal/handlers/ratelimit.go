package handlers

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"careerpath/career-advisor/internal/apperrors"
	"careerpath/career-advisor/internal/logger"
	"careerpath/career-advisor/internal/metrics"
	"careerpath/career-advisor/internal/services"
)

// RateLimit rejects clients that exceed limiter, keyed by client IP. A limiter error lets the
// request through.
func RateLimit(limiter services.RateLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision, err := limiter.Allow(c.UserContext(), c.IP())
		if err != nil {
			logger.Warn().Err(err).Str("ip", c.IP()).Msg("⚠️ Rate limiter unavailable, allowing request")
			return c.Next()
		}

		c.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		if !decision.Allowed {
			metrics.RateLimited.Inc()
			if decision.RetryAfter > 0 {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(decision.RetryAfter.Seconds()))))
			}
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many analysis requests. Please try again later.",
				"code":  apperrors.CodeRateLimited,
			})
		}

		return c.Next()
	}
}
