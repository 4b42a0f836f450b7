// file: internals/features/classrooms/controller/membership_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tubuzu/learn-together-backend/internals/constants"
	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/dto"
	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/service"
	helper "github.com/tubuzu/learn-together-backend/internals/helpers"
)

type MembershipController struct {
	Svc      *service.MembershipService
	Validate *validator.Validate
}

func NewMembershipController(svc *service.MembershipService, v *validator.Validate) *MembershipController {
	return &MembershipController{Svc: svc, Validate: v}
}

// joinResponse renders either the admitted classroom or the filed request.
func joinResponse(c *fiber.Ctx, res *service.JoinResult) error {
	if res.JoinRequest != nil {
		return helper.JsonCreated(c, "Join request submitted, waiting for owner approval",
			dto.FromJoinRequestModel(res.JoinRequest))
	}
	return helper.JsonOK(c, "Joined classroom successfully", dto.FromClassroomModel(res.Classroom))
}

// =======================
// POST /api/v1/classrooms/:id/join
// =======================
func (ctl *MembershipController) JoinPublic(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	classroomID, err := parseClassroomID(c)
	if err != nil {
		return err
	}

	var req dto.JoinPublicClassroomRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := ctl.Validate.Struct(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}
	if req.Role == "" {
		req.Role = constants.ClassroomMemberRoleStudent
	}

	res, err := ctl.Svc.JoinPublic(c.Context(), classroomID, userID, req.Role)
	if err != nil {
		return err
	}
	return joinResponse(c, res)
}

// =======================
// POST /api/v1/classrooms/:id/join-private
// =======================
func (ctl *MembershipController) JoinPrivate(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	classroomID, err := parseClassroomID(c)
	if err != nil {
		return err
	}

	var req dto.JoinPrivateClassroomRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.Role == "" {
		req.Role = constants.ClassroomMemberRoleStudent
	}

	res, err := ctl.Svc.JoinPrivate(c.Context(), classroomID, userID, req.Role, req.SecretKey)
	if err != nil {
		return err
	}
	return joinResponse(c, res)
}

// =======================
// POST /api/v1/classrooms/:id/leave
// =======================
func (ctl *MembershipController) Leave(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	classroomID, err := parseClassroomID(c)
	if err != nil {
		return err
	}

	cls, err := ctl.Svc.Leave(c.Context(), classroomID, userID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Left classroom successfully", dto.FromClassroomModel(cls))
}

// =======================
// POST /api/v1/classrooms/:id/kick/:userId
// =======================
func (ctl *MembershipController) Kick(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	classroomID, err := parseClassroomID(c)
	if err != nil {
		return err
	}
	targetID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid user ID")
	}

	cls, err := ctl.Svc.Kick(c.Context(), classroomID, ownerID, targetID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Member kicked successfully", dto.FromClassroomModel(cls))
}

// =======================
// POST /api/v1/classrooms/:id/transfer-tutor
// =======================
func (ctl *MembershipController) TransferTutor(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	classroomID, err := parseClassroomID(c)
	if err != nil {
		return err
	}

	var req dto.TransferRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	cls, err := ctl.Svc.TransferTutor(c.Context(), classroomID, ownerID, req.UserID)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Classroom tutor updated successfully", dto.FromClassroomModel(cls))
}

// =======================
// POST /api/v1/classrooms/:id/transfer-owner
// =======================
func (ctl *MembershipController) TransferOwner(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	classroomID, err := parseClassroomID(c)
	if err != nil {
		return err
	}

	var req dto.TransferRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	cls, err := ctl.Svc.TransferOwner(c.Context(), classroomID, ownerID, req.UserID)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Classroom owner updated successfully", dto.FromClassroomModel(cls))
}
