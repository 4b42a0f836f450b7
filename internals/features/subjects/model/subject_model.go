// file: internals/features/subjects/model/subject_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubjectModel maps the subjects catalog referenced by classrooms and
// proofs of level.
type SubjectModel struct {
	SubjectID          uuid.UUID `json:"subject_id"   gorm:"column:subject_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	SubjectName        string    `json:"subject_name" gorm:"column:subject_name;type:varchar(120);not null;uniqueIndex"`
	SubjectDescription *string   `json:"subject_description,omitempty" gorm:"column:subject_description;type:text"`

	SubjectCreatedAt time.Time      `json:"subject_created_at" gorm:"column:subject_created_at;type:timestamptz;not null;default:now();autoCreateTime"`
	SubjectUpdatedAt time.Time      `json:"subject_updated_at" gorm:"column:subject_updated_at;type:timestamptz;not null;default:now();autoUpdateTime"`
	SubjectDeletedAt gorm.DeletedAt `json:"subject_deleted_at,omitempty" gorm:"column:subject_deleted_at;type:timestamptz;index"`
}

func (SubjectModel) TableName() string { return "subjects" }
