package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"clinical-scribe-be/internal/apperror"
)

// ErrorHandlerMiddleware converts errors bubbling out of controllers into
// the JSON error envelope. Every failure surfaces as a single human-readable
// message; raw causes and stack traces never reach the client.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return ctx.Status(appErr.Status).JSON(ErrResponse{
				Code:      appErr.Status,
				ErrorCode: string(appErr.Code),
				Message:   appErr.Message,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(
			ErrorResponse(fiber.StatusInternalServerError, "An unexpected error occurred. Please try again."))
	}
}
