// file: internals/route/base_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BaseRoutes: unauthenticated service endpoints.
func BaseRoutes(app *fiber.App, db *gorm.DB) {
	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "degraded",
				"db":     "down",
			})
		}
		return c.JSON(fiber.Map{
			"status": "ok",
			"db":     "up",
		})
	})
}
