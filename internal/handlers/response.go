package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"careerpath/career-advisor/internal/apperrors"
	"careerpath/career-advisor/internal/logger"
)

// respondError renders err with the status its code maps to. Coded errors expose their code
// so clients can tell an upstream timeout from a rate limit.
func respondError(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)

	var se *apperrors.StandardError
	if errors.As(err, &se) {
		if status >= fiber.StatusInternalServerError {
			logger.Error().Err(err).Str("path", c.Path()).Str("error_code", string(se.Code)).Msg("❌ Request failed")
		}
		return c.Status(status).JSON(fiber.Map{
			"error":     se.Message,
			"code":      se.Code,
			"retryable": se.Retryable,
		})
	}

	logger.Error().Err(err).Str("path", c.Path()).Msg("❌ Request failed")
	return c.Status(status).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}

// queryLimit reads a positive integer query parameter, falling back to def and capping at max.
func queryLimit(c *fiber.Ctx, key string, def, max int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// ErrorHandler renders errors that escape handlers, including Fiber's own routing errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
			"code":  fe.Code,
		})
	}
	return respondError(c, err)
}
