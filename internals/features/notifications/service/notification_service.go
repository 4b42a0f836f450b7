// file: internals/features/notifications/service/notification_service.go
package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tubuzu/learn-together-backend/internals/features/notifications/model"
	helper "github.com/tubuzu/learn-together-backend/internals/helpers"
)

// NotificationService persists and serves notification rows. Emission is
// best-effort: callers log failures and never roll back the change that
// triggered the notification.
type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Emit records a notification for targetUser. classroomID may be uuid.Nil
// for events without a classroom context.
func (s *NotificationService) Emit(code string, originUser, targetUser uuid.UUID, classroomID uuid.UUID, content string) error {
	row := model.NotificationModel{
		NotificationTargetUserID: targetUser,
		NotificationCode:         code,
		NotificationContent:      content,
		NotificationExtraData:    datatypes.JSONMap{},
	}
	if originUser != uuid.Nil {
		row.NotificationOriginUserID = &originUser
	}
	if classroomID != uuid.Nil {
		row.NotificationClassroomID = &classroomID
		row.NotificationExtraData["classroom_id"] = classroomID.String()
	}
	return s.DB.Create(&row).Error
}

// ListForUser returns the user's inbox, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID uuid.UUID, p helper.Paging) ([]model.NotificationModel, int64, error) {
	q := s.DB.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("notification_target_user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.NotificationModel
	if err := q.Order("notification_created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// MarkRead flips a single notification to read; only the target user may do
// it. Returns gorm.ErrRecordNotFound when the row is absent or not theirs.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("notification_id = ? AND notification_target_user_id = ?", notificationID, userID).
		Update("notification_is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
