// file: internals/features/subjects/controller/subject_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tubuzu/learn-together-backend/internals/features/subjects/dto"
	"github.com/tubuzu/learn-together-backend/internals/features/subjects/model"
	helper "github.com/tubuzu/learn-together-backend/internals/helpers"
)

type SubjectController struct {
	DB *gorm.DB
}

func NewSubjectController(db *gorm.DB) *SubjectController {
	return &SubjectController{DB: db}
}

// GET /api/v1/subjects?name=&page=&per_page=
func (ctl *SubjectController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).Model(&model.SubjectModel{})
	if name := strings.TrimSpace(c.Query("name")); name != "" {
		q = q.Where("subject_name ILIKE ?", "%"+name+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to count subjects")
	}

	var rows []model.SubjectModel
	if err := q.Order("subject_name ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list subjects")
	}

	return helper.JsonList(c, "Subjects fetched successfully",
		dto.FromSubjectModels(rows),
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/v1/subjects/:id
func (ctl *SubjectController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid subject ID")
	}

	var row model.SubjectModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&row, "subject_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Subject not found!")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load subject")
	}

	return helper.JsonOK(c, "Subject fetched successfully", dto.FromSubjectModel(&row))
}
