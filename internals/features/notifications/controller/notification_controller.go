// file: internals/features/notifications/controller/notification_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tubuzu/learn-together-backend/internals/features/notifications/dto"
	"github.com/tubuzu/learn-together-backend/internals/features/notifications/service"
	helper "github.com/tubuzu/learn-together-backend/internals/helpers"
)

type NotificationController struct {
	Svc *service.NotificationService
}

func NewNotificationController(svc *service.NotificationService) *NotificationController {
	return &NotificationController{Svc: svc}
}

// GET /api/v1/notifications?page=&per_page=
func (ctl *NotificationController) List(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.ListForUser(c.Context(), userID, p)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list notifications")
	}
	return helper.JsonList(c, "Notifications fetched successfully",
		dto.FromNotificationModels(rows),
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// POST /api/v1/notifications/:id/read
func (ctl *NotificationController) MarkRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid notification ID")
	}

	if err := ctl.Svc.MarkRead(c.Context(), userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Notification not found!")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update notification")
	}
	return helper.JsonUpdated(c, "Notification marked as read", nil)
}
