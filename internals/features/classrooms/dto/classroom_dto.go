// file: internals/features/classrooms/dto/classroom_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/model"
)

/* =======================================================
   REQUESTS
======================================================= */

type CreateClassroomRequest struct {
	ClassroomName   string    `json:"classroom_name"   validate:"required,min=3,max=120"`
	SubjectID       uuid.UUID `json:"subject_id"       validate:"required"`
	MaxParticipants int       `json:"max_participants" validate:"required,min=2,max=30"`
	Latitude        float64   `json:"latitude"         validate:"latitude"`
	Longitude       float64   `json:"longitude"        validate:"longitude"`
	Address         string    `json:"address"          validate:"required,max=500"`
	StartTime       time.Time `json:"start_time"       validate:"required"`
	EndTime         time.Time `json:"end_time"         validate:"required"`
	OwnerIsTutor    bool      `json:"owner_is_tutor"`

	// optional
	Description           *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	IsPublic              bool    `json:"is_public"`
	OwnerApprovalRequired bool    `json:"owner_approval_required"`
	SecretKey             string  `json:"secret_key" validate:"omitempty,min=4,max=64"`
}

// UpdateClassroomRequest is an explicit patch: nil means "leave unchanged".
type UpdateClassroomRequest struct {
	ClassroomName *string    `json:"classroom_name,omitempty" validate:"omitempty,min=3,max=120"`
	SubjectID     *uuid.UUID `json:"subject_id,omitempty"`
	Latitude      *float64   `json:"latitude,omitempty"  validate:"omitempty,latitude"`
	Longitude     *float64   `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Address       *string    `json:"address,omitempty"   validate:"omitempty,max=500"`
	Description   *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty"`
}

// IsEmpty reports whether the patch carries no changes at all.
func (r *UpdateClassroomRequest) IsEmpty() bool {
	return r.ClassroomName == nil && r.SubjectID == nil &&
		r.Latitude == nil && r.Longitude == nil &&
		r.Address == nil && r.Description == nil &&
		r.StartTime == nil && r.EndTime == nil
}

type JoinPublicClassroomRequest struct {
	Role string `json:"role" validate:"omitempty,oneof=STUDENT TUTOR"`
}

type JoinPrivateClassroomRequest struct {
	SecretKey string `json:"secret_key" validate:"required"`
	Role      string `json:"role"       validate:"omitempty,oneof=STUDENT TUTOR"`
}

type TransferRoleRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// MapBoundsQuery carries the NE/SW bounding box for map search.
type MapBoundsQuery struct {
	NorthLatBound  float64 `query:"north_lat_bound"  validate:"latitude"`
	NorthLongBound float64 `query:"north_long_bound" validate:"longitude"`
	SouthLatBound  float64 `query:"south_lat_bound"  validate:"latitude"`
	SouthLongBound float64 `query:"south_long_bound" validate:"longitude"`
}

/* =======================================================
   RESPONSES
======================================================= */

type ClassroomResponse struct {
	ClassroomID           uuid.UUID  `json:"classroom_id"`
	ClassroomName         string     `json:"classroom_name"`
	SubjectID             uuid.UUID  `json:"subject_id"`
	Description           *string    `json:"description,omitempty"`
	CreatorID             uuid.UUID  `json:"creator_id"`
	OwnerID               uuid.UUID  `json:"owner_id"`
	TutorID               *uuid.UUID `json:"tutor_id,omitempty"`
	CurrentParticipants   []string   `json:"current_participants"`
	HistoryParticipants   []string   `json:"history_participants"`
	MaxParticipants       int        `json:"max_participants"`
	State                 string     `json:"state"`
	Available             bool       `json:"available"`
	Terminated            bool       `json:"terminated"`
	IsPublic              bool       `json:"is_public"`
	OwnerApprovalRequired bool       `json:"owner_approval_required"`
	Latitude              float64    `json:"latitude"`
	Longitude             float64    `json:"longitude"`
	Address               string     `json:"address"`
	StartTime             time.Time  `json:"start_time"`
	EndTime               time.Time  `json:"end_time"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func FromClassroomModel(m *model.ClassroomModel) *ClassroomResponse {
	if m == nil {
		return nil
	}
	return &ClassroomResponse{
		ClassroomID:           m.ClassroomID,
		ClassroomName:         m.ClassroomName,
		SubjectID:             m.ClassroomSubjectID,
		Description:           m.ClassroomDescription,
		CreatorID:             m.ClassroomCreatorID,
		OwnerID:               m.ClassroomOwnerID,
		TutorID:               m.ClassroomTutorID,
		CurrentParticipants:   m.ClassroomCurrentParticipants,
		HistoryParticipants:   m.ClassroomHistoryParticipants,
		MaxParticipants:       m.ClassroomMaxParticipants,
		State:                 m.ClassroomState,
		Available:             m.ClassroomAvailable,
		Terminated:            m.ClassroomTerminated,
		IsPublic:              m.ClassroomIsPublic,
		OwnerApprovalRequired: m.ClassroomOwnerApprovalRequired,
		Latitude:              m.ClassroomLatitude,
		Longitude:             m.ClassroomLongitude,
		Address:               m.ClassroomAddress,
		StartTime:             m.ClassroomStartTime,
		EndTime:               m.ClassroomEndTime,
		CreatedAt:             m.ClassroomCreatedAt,
		UpdatedAt:             m.ClassroomUpdatedAt,
	}
}

func FromClassroomModels(ms []model.ClassroomModel) []ClassroomResponse {
	out := make([]ClassroomResponse, 0, len(ms))
	for i := range ms {
		out = append(out, *FromClassroomModel(&ms[i]))
	}
	return out
}
