package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler answers unexpected handler errors. The caller is the
// external SMS API, so no error detail ever leaves the process.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
			return c.Status(fiberErr.Code).SendString(fiberErr.Message)
		}

		logger.Error("unhandled error", zap.Error(err), zap.String("path", c.Path()))

		return c.SendStatus(fiber.StatusInternalServerError)
	}
}
