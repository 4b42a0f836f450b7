// file: internals/middlewares/setup_middlewares.go
package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tubuzu/learn-together-backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the base middleware chain.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
