// file: internals/features/classrooms/controller/join_request_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/dto"
	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/service"
	helper "github.com/tubuzu/learn-together-backend/internals/helpers"
)

type JoinRequestController struct {
	Svc *service.MembershipService
}

func NewJoinRequestController(svc *service.MembershipService) *JoinRequestController {
	return &JoinRequestController{Svc: svc}
}

func parseRequestID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid join request ID")
	}
	return id, nil
}

// =======================
// GET /api/v1/classrooms/:id/join-requests?page=&per_page=
// =======================
func (ctl *JoinRequestController) List(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	classroomID, err := parseClassroomID(c)
	if err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Svc.ListJoinRequests(c.Context(), classroomID, userID, p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Join requests fetched successfully",
		dto.FromJoinRequestModels(rows),
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// =======================
// POST /api/v1/classrooms/join-requests/:requestId/accept
// =======================
func (ctl *JoinRequestController) Accept(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	requestID, err := parseRequestID(c)
	if err != nil {
		return err
	}

	req, err := ctl.Svc.AcceptJoinRequest(c.Context(), requestID, userID)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Join request accepted", dto.FromJoinRequestModel(req))
}

// =======================
// POST /api/v1/classrooms/join-requests/:requestId/reject
// =======================
func (ctl *JoinRequestController) Reject(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	requestID, err := parseRequestID(c)
	if err != nil {
		return err
	}

	req, err := ctl.Svc.RejectJoinRequest(c.Context(), requestID, userID)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Join request rejected", dto.FromJoinRequestModel(req))
}
