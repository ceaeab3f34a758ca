package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderAllowOrigin  = "Access-Control-Allow-Origin"
	HeaderAllowMethods = "Access-Control-Allow-Methods"
	HeaderAllowHeaders = "Access-Control-Allow-Headers"
	HeaderMaxAge       = "Access-Control-Max-Age"

	preflightMaxAge = "86400"
)

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Error   string  `json:"error"`
	Details *string `json:"details,omitempty"`
}

// ErrorResponse builds an error body; details is omitted when nil.
func ErrorResponse(message string, details *string) ErrorBody {
	return ErrorBody{Error: message, Details: details}
}

// JSON writes body as application/json with the CORS origin header.
func JSON(ctx *fiber.Ctx, status int, body interface{}) error {
	ctx.Set(HeaderAllowOrigin, "*")
	return ctx.Status(status).JSON(body)
}

// Preflight answers an OPTIONS request: 200, empty body, no Content-Type.
func Preflight(ctx *fiber.Ctx, methods ...string) error {
	allowed := append(append([]string{}, methods...), fiber.MethodOptions)

	ctx.Set(HeaderAllowOrigin, "*")
	ctx.Set(HeaderAllowMethods, strings.Join(allowed, ", "))
	ctx.Set(HeaderAllowHeaders, fiber.HeaderContentType)
	ctx.Set(HeaderMaxAge, preflightMaxAge)

	ctx.Response().Header.SetNoDefaultContentType(true)
	ctx.Response().Header.Del(fiber.HeaderContentType)
	ctx.Response().ResetBody()
	ctx.Status(fiber.StatusOK)
	return nil
}
