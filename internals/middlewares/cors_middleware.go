// file: internals/middlewares/cors_middleware.go
package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CorsMiddleware builds the CORS middleware
func CorsMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: strings.Join([]string{
			"http://localhost:5173",
			"http://localhost:3000",
			"https://learn-together-app.azurewebsites.net",
		}, ", "),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	})
}
