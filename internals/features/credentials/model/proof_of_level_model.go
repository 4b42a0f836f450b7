// file: internals/features/credentials/model/proof_of_level_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProofOfLevelModel maps the proof_of_levels table: an externally verified
// qualification permitting a user to hold the TUTOR role for a subject.
// The approval workflow for proofs lives in another service; this backend
// only reads accepted rows.
type ProofOfLevelModel struct {
	ProofOfLevelID          uuid.UUID `json:"proof_of_level_id"           gorm:"column:proof_of_level_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ProofOfLevelUserID      uuid.UUID `json:"proof_of_level_user_id"      gorm:"column:proof_of_level_user_id;type:uuid;not null;index"`
	ProofOfLevelSubjectID   uuid.UUID `json:"proof_of_level_subject_id"   gorm:"column:proof_of_level_subject_id;type:uuid;not null;index"`
	ProofOfLevelDocumentURL *string   `json:"proof_of_level_document_url,omitempty" gorm:"column:proof_of_level_document_url;type:text"`

	ProofOfLevelCreatedAt time.Time      `json:"proof_of_level_created_at" gorm:"column:proof_of_level_created_at;type:timestamptz;not null;default:now();autoCreateTime"`
	ProofOfLevelUpdatedAt time.Time      `json:"proof_of_level_updated_at" gorm:"column:proof_of_level_updated_at;type:timestamptz;not null;default:now();autoUpdateTime"`
	ProofOfLevelDeletedAt gorm.DeletedAt `json:"proof_of_level_deleted_at,omitempty" gorm:"column:proof_of_level_deleted_at;type:timestamptz;index"`
}

func (ProofOfLevelModel) TableName() string { return "proof_of_levels" }
