// file: internals/features/notifications/route/notification_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tubuzu/learn-together-backend/internals/features/notifications/controller"
	"github.com/tubuzu/learn-together-backend/internals/features/notifications/service"
)

// NotificationRoutes registers the authenticated inbox endpoints.
func NotificationRoutes(api fiber.Router, authGuard fiber.Handler, svc *service.NotificationService) {
	ctl := controller.NewNotificationController(svc)

	r := api.Group("/notifications", authGuard)
	r.Get("/", ctl.List)
	r.Post("/:id/read", ctl.MarkRead)
}
