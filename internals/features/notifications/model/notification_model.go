// file: internals/features/notifications/model/notification_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationModel maps the notifications table. Rows are written
// best-effort on every classroom state/membership change and read back by
// the inbox endpoint.
type NotificationModel struct {
	NotificationID           uuid.UUID  `json:"notification_id"             gorm:"column:notification_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	NotificationOriginUserID *uuid.UUID `json:"notification_origin_user_id,omitempty" gorm:"column:notification_origin_user_id;type:uuid"`
	NotificationTargetUserID uuid.UUID  `json:"notification_target_user_id" gorm:"column:notification_target_user_id;type:uuid;not null;index"`
	NotificationClassroomID  *uuid.UUID `json:"notification_classroom_id,omitempty" gorm:"column:notification_classroom_id;type:uuid"`

	NotificationCode      string            `json:"notification_code"    gorm:"column:notification_code;type:varchar(64);not null"`
	NotificationContent   string            `json:"notification_content" gorm:"column:notification_content;type:text;not null"`
	NotificationExtraData datatypes.JSONMap `json:"notification_extra_data" gorm:"column:notification_extra_data;type:jsonb;not null;default:'{}'"`
	NotificationIsRead    bool              `json:"notification_is_read" gorm:"column:notification_is_read;not null;default:false"`

	NotificationCreatedAt time.Time      `json:"notification_created_at" gorm:"column:notification_created_at;type:timestamptz;not null;default:now();autoCreateTime"`
	NotificationUpdatedAt time.Time      `json:"notification_updated_at" gorm:"column:notification_updated_at;type:timestamptz;not null;default:now();autoUpdateTime"`
	NotificationDeletedAt gorm.DeletedAt `json:"notification_deleted_at,omitempty" gorm:"column:notification_deleted_at;type:timestamptz;index"`
}

func (NotificationModel) TableName() string { return "notifications" }
