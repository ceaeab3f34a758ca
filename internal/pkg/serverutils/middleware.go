package serverutils

import (
	"errors"
	"time"

	"ai-chat-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const module = "HTTP"

// ErrorHandler maps returned errors onto the JSON error contract.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		body := ErrorResponse(err.Error(), nil)
		code := fiber.StatusInternalServerError

		var appErr *AppError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			code = appErr.Code
			body = ErrorResponse(appErr.Message, appErr.Details)
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			body = ErrorResponse(fiberErr.Message, nil)
		}

		if code >= fiber.StatusInternalServerError {
			log.Error(module, "request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"status": code,
				"error":  err,
			})
		}

		ctx.Response().Header.SetNoDefaultContentType(false)
		return JSON(ctx, code, body)
	}
}

// RequestLogger resolves chain errors through the app's error handler so the
// final status is known, then logs one line per request.
func RequestLogger(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()

		if chainErr := ctx.Next(); chainErr != nil {
			if err := ctx.App().ErrorHandler(ctx, chainErr); err != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
			}
		}

		log.Info(module, "request handled", map[string]interface{}{
			"method":     ctx.Method(),
			"path":       ctx.Path(),
			"status":     ctx.Response().StatusCode(),
			"latency_ms": time.Since(start).Milliseconds(),
			"request_id": RequestID(ctx),
		})
		return nil
	}
}

// RequestID returns the id assigned by the requestid middleware, if any.
func RequestID(ctx *fiber.Ctx) string {
	if id, ok := ctx.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
