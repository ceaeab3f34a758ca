package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

// Endpoint binds one HTTP verb to a handler. OPTIONS is answered as a CORS
// preflight advertising that verb; every other method gets 405.
// Register it with Router.All so the dispatch happens here.
func Endpoint(method string, handler fiber.Handler) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		switch ctx.Method() {
		case fiber.MethodOptions:
			return Preflight(ctx, method)
		case method:
			ctx.Set(HeaderAllowOrigin, "*")
			return handler(ctx)
		default:
			return MethodNotAllowed()
		}
	}
}
