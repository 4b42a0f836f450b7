// file: internals/features/notifications/dto/notification_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/tubuzu/learn-together-backend/internals/features/notifications/model"
)

type NotificationResponse struct {
	NotificationID uuid.UUID         `json:"notification_id"`
	OriginUserID   *uuid.UUID        `json:"origin_user_id,omitempty"`
	ClassroomID    *uuid.UUID        `json:"classroom_id,omitempty"`
	Code           string            `json:"code"`
	Content        string            `json:"content"`
	ExtraData      datatypes.JSONMap `json:"extra_data"`
	IsRead         bool              `json:"is_read"`
	CreatedAt      time.Time         `json:"created_at"`
}

func FromNotificationModel(m *model.NotificationModel) *NotificationResponse {
	if m == nil {
		return nil
	}
	return &NotificationResponse{
		NotificationID: m.NotificationID,
		OriginUserID:   m.NotificationOriginUserID,
		ClassroomID:    m.NotificationClassroomID,
		Code:           m.NotificationCode,
		Content:        m.NotificationContent,
		ExtraData:      m.NotificationExtraData,
		IsRead:         m.NotificationIsRead,
		CreatedAt:      m.NotificationCreatedAt,
	}
}

func FromNotificationModels(ms []model.NotificationModel) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(ms))
	for i := range ms {
		out = append(out, *FromNotificationModel(&ms[i]))
	}
	return out
}
