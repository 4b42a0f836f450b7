// file: internals/features/classrooms/service/search_service.go
package service

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tubuzu/learn-together-backend/internals/constants"
	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/dto"
	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/model"
	helper "github.com/tubuzu/learn-together-backend/internals/helpers"
)

// SearchService is the read side: discovery listings, map search, and the
// caller's own current/history views. It never mutates anything.
type SearchService struct {
	DB *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{DB: db}
}

/* =======================================================
   Scope builders
======================================================= */

// discoverable limits a query to classrooms a stranger may see: public,
// accepting members and not ended early.
func discoverable(q *gorm.DB) *gorm.DB {
	return q.Where("classroom_is_public = TRUE AND classroom_available = TRUE AND classroom_terminated = FALSE")
}

// parseStateFilter turns a comma-separated state list into a validated
// slice. Empty input means no filter.
func parseStateFilter(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	states := make([]string, 0, len(parts))
	for _, p := range parts {
		st := strings.ToUpper(strings.TrimSpace(p))
		if st == "" {
			continue
		}
		if !constants.ValidClassroomStates[st] {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid classroom state filter: "+st)
		}
		states = append(states, st)
	}
	return states, nil
}

// bySubjectName joins subjects for a case-insensitive name match.
func bySubjectName(q *gorm.DB, name string) *gorm.DB {
	name = strings.TrimSpace(name)
	if name == "" {
		return q
	}
	return q.
		Joins("JOIN subjects ON subjects.subject_id = classrooms.classroom_subject_id").
		Where("subjects.subject_name ILIKE ?", "%"+name+"%")
}

/* =======================================================
   Queries
======================================================= */

// ListDiscoverable pages through joinable public classrooms, optionally
// filtered by lifecycle states and subject name, soonest start first.
func (s *SearchService) ListDiscoverable(ctx context.Context, stateFilter, subjectName string, p helper.Paging) ([]model.ClassroomModel, int64, error) {
	states, err := parseStateFilter(stateFilter)
	if err != nil {
		return nil, 0, err
	}

	q := discoverable(s.DB.WithContext(ctx).Model(&model.ClassroomModel{}))
	if len(states) > 0 {
		q = q.Where("classroom_state IN ?", states)
	}
	q = bySubjectName(q, subjectName)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fiber.NewError(fiber.StatusInternalServerError, "Failed to count classrooms")
	}

	var rows []model.ClassroomModel
	if err := q.Order("classroom_start_time ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, fiber.NewError(fiber.StatusInternalServerError, "Failed to list classrooms")
	}
	return rows, total, nil
}

// SearchByMapBounds returns discoverable classrooms inside the NE/SW
// bounding box.
func (s *SearchService) SearchByMapBounds(ctx context.Context, b *dto.MapBoundsQuery, p helper.Paging) ([]model.ClassroomModel, int64, error) {
	if b.SouthLatBound > b.NorthLatBound || b.SouthLongBound > b.NorthLongBound {
		return nil, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid map bounds!")
	}

	q := discoverable(s.DB.WithContext(ctx).Model(&model.ClassroomModel{})).
		Where("classroom_latitude BETWEEN ? AND ?", b.SouthLatBound, b.NorthLatBound).
		Where("classroom_longitude BETWEEN ? AND ?", b.SouthLongBound, b.NorthLongBound)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fiber.NewError(fiber.StatusInternalServerError, "Failed to count classrooms")
	}

	var rows []model.ClassroomModel
	if err := q.Order("classroom_start_time ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, fiber.NewError(fiber.StatusInternalServerError, "Failed to search classrooms")
	}
	return rows, total, nil
}

// GetUserCurrent lists the non-terminated classrooms the caller belongs to
// right now.
func (s *SearchService) GetUserCurrent(ctx context.Context, userID uuid.UUID) ([]model.ClassroomModel, error) {
	var rows []model.ClassroomModel
	err := s.DB.WithContext(ctx).
		Where("classroom_terminated = FALSE AND ? = ANY(classroom_current_participants)", userID.String()).
		Order("classroom_start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to list classrooms")
	}
	return rows, nil
}

// GetUserHistory pages through the classrooms the caller has been a member
// of but is no longer active in, newest first: rooms that ended (naturally
// or terminated) and rooms the caller left or was kicked from. Ongoing
// memberships belong to GetUserCurrent.
func (s *SearchService) GetUserHistory(ctx context.Context, userID uuid.UUID, p helper.Paging) ([]model.ClassroomModel, int64, error) {
	uid := userID.String()
	q := s.DB.WithContext(ctx).
		Model(&model.ClassroomModel{}).
		Where("? = ANY(classroom_history_participants)", uid).
		Where("classroom_terminated = TRUE OR classroom_state = ? OR NOT (? = ANY(classroom_current_participants))",
			constants.ClassroomStateFinished, uid)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fiber.NewError(fiber.StatusInternalServerError, "Failed to count classrooms")
	}

	var rows []model.ClassroomModel
	if err := q.Order("classroom_start_time DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, fiber.NewError(fiber.StatusInternalServerError, "Failed to list classrooms")
	}
	return rows, total, nil
}
