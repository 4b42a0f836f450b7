// file: internals/features/credentials/service/credential_service.go
package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tubuzu/learn-together-backend/internals/features/credentials/model"
)

// CredentialService answers "may this user tutor this subject?" against the
// proof_of_levels table.
type CredentialService struct {
	DB *gorm.DB
}

func NewCredentialService(db *gorm.DB) *CredentialService {
	return &CredentialService{DB: db}
}

// HasCredential reports whether userID holds at least one proof of level
// for subjectID.
func (s *CredentialService) HasCredential(ctx context.Context, userID, subjectID uuid.UUID) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).
		Model(&model.ProofOfLevelModel{}).
		Where("proof_of_level_user_id = ? AND proof_of_level_subject_id = ?", userID, subjectID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
