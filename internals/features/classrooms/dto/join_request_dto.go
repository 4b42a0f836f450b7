// file: internals/features/classrooms/dto/join_request_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/model"
)

type JoinRequestResponse struct {
	JoinRequestID uuid.UUID  `json:"join_request_id"`
	UserID        uuid.UUID  `json:"user_id"`
	ClassroomID   uuid.UUID  `json:"classroom_id"`
	Role          string     `json:"role"`
	State         string     `json:"state"`
	ReviewerID    *uuid.UUID `json:"reviewer_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func FromJoinRequestModel(m *model.JoinRequestModel) *JoinRequestResponse {
	if m == nil {
		return nil
	}
	return &JoinRequestResponse{
		JoinRequestID: m.JoinRequestID,
		UserID:        m.JoinRequestUserID,
		ClassroomID:   m.JoinRequestClassroomID,
		Role:          m.JoinRequestRole,
		State:         m.JoinRequestState,
		ReviewerID:    m.JoinRequestReviewerID,
		CreatedAt:     m.JoinRequestCreatedAt,
		UpdatedAt:     m.JoinRequestUpdatedAt,
	}
}

func FromJoinRequestModels(ms []model.JoinRequestModel) []JoinRequestResponse {
	out := make([]JoinRequestResponse, 0, len(ms))
	for i := range ms {
		out = append(out, *FromJoinRequestModel(&ms[i]))
	}
	return out
}
