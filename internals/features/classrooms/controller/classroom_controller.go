// file: internals/features/classrooms/controller/classroom_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/dto"
	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/service"
	helper "github.com/tubuzu/learn-together-backend/internals/helpers"
)

// ClassroomController handles lifecycle + read endpoints. Membership
// endpoints live in MembershipController.
type ClassroomController struct {
	Svc      *service.ClassroomService
	Search   *service.SearchService
	Validate *validator.Validate
}

func NewClassroomController(svc *service.ClassroomService, search *service.SearchService, v *validator.Validate) *ClassroomController {
	return &ClassroomController{Svc: svc, Search: search, Validate: v}
}

func parseClassroomID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid classroom ID")
	}
	return id, nil
}

// =======================
// POST /api/v1/classrooms
// =======================
func (ctl *ClassroomController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateClassroomRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	cls, err := ctl.Svc.Create(c.Context(), userID, &req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Classroom created successfully", dto.FromClassroomModel(cls))
}

// =======================
// PATCH /api/v1/classrooms/:id
// =======================
func (ctl *ClassroomController) Update(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	classroomID, err := parseClassroomID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateClassroomRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	cls, err := ctl.Svc.Update(c.Context(), classroomID, userID, &req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Classroom updated successfully", dto.FromClassroomModel(cls))
}

// =======================
// POST /api/v1/classrooms/:id/end
// =======================
func (ctl *ClassroomController) End(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	classroomID, err := parseClassroomID(c)
	if err != nil {
		return err
	}

	cls, err := ctl.Svc.End(c.Context(), classroomID, userID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Classroom ended successfully", dto.FromClassroomModel(cls))
}

// =======================
// GET /api/v1/classrooms/:id
// =======================
func (ctl *ClassroomController) GetByID(c *fiber.Ctx) error {
	classroomID, err := parseClassroomID(c)
	if err != nil {
		return err
	}

	cls, err := ctl.Svc.GetByID(c.Context(), classroomID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Classroom fetched successfully", dto.FromClassroomModel(cls))
}

// =======================
// GET /api/v1/classrooms?states=&subject_name=&page=&per_page=
// =======================
func (ctl *ClassroomController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	rows, total, err := ctl.Search.ListDiscoverable(c.Context(), c.Query("states"), c.Query("subject_name"), p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Classrooms fetched successfully",
		dto.FromClassroomModels(rows),
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// =======================
// GET /api/v1/classrooms/map?north_lat_bound=&north_long_bound=&south_lat_bound=&south_long_bound=
// =======================
func (ctl *ClassroomController) SearchByMap(c *fiber.Ctx) error {
	var bounds dto.MapBoundsQuery
	if err := c.QueryParser(&bounds); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid map bounds")
	}
	if err := ctl.Validate.Struct(&bounds); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	p := helper.ResolvePaging(c, 50, 200)
	rows, total, err := ctl.Search.SearchByMapBounds(c.Context(), &bounds, p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Classrooms fetched successfully",
		dto.FromClassroomModels(rows),
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// =======================
// GET /api/v1/classrooms/me/current
// =======================
func (ctl *ClassroomController) MyCurrent(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	rows, err := ctl.Search.GetUserCurrent(c.Context(), userID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Classrooms fetched successfully", dto.FromClassroomModels(rows))
}

// =======================
// GET /api/v1/classrooms/me/history?page=&per_page=
// =======================
func (ctl *ClassroomController) MyHistory(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := ctl.Search.GetUserHistory(c.Context(), userID, p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Classrooms fetched successfully",
		dto.FromClassroomModels(rows),
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}
