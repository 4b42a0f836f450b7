// file: internals/features/subjects/dto/subject_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/tubuzu/learn-together-backend/internals/features/subjects/model"
)

type SubjectResponse struct {
	SubjectID   uuid.UUID `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromSubjectModel(m *model.SubjectModel) *SubjectResponse {
	if m == nil {
		return nil
	}
	return &SubjectResponse{
		SubjectID:   m.SubjectID,
		SubjectName: m.SubjectName,
		Description: m.SubjectDescription,
		CreatedAt:   m.SubjectCreatedAt,
	}
}

func FromSubjectModels(ms []model.SubjectModel) []SubjectResponse {
	out := make([]SubjectResponse, 0, len(ms))
	for i := range ms {
		out = append(out, *FromSubjectModel(&ms[i]))
	}
	return out
}
