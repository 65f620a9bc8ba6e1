package serverutils

import (
	"errors"
	"fmt"

	"vaulta-banking-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns panics and returned errors into the standard
// JSON envelope. Messages from a *fiber.Error are passed through; anything
// else becomes a generic 500 so internals never reach the caller.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				if log != nil {
					log.Error("HTTP", "Recovered from panic", map[string]interface{}{
						"path":  ctx.Path(),
						"error": fmt.Sprint(r),
					})
				}
				err = ctx.Status(fiber.StatusInternalServerError).
					JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
			}
		}()

		err = ctx.Next()
		if err == nil {
			return nil
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}
		if log != nil {
			log.Error("HTTP", "Unhandled error", map[string]interface{}{"path": ctx.Path(), "error": err})
		}
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}
