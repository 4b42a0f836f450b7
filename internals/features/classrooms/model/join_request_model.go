// file: internals/features/classrooms/model/join_request_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JoinRequestModel maps the join_requests table (per DDL).
// At most one WAITING row per (user, classroom) pair; resolution flips the
// state and records the reviewer. Rows are never hard-deleted.
//
// The invariant is owned by a partial unique index, not by application
// code — two concurrent joins against an approval-gated room race the
// INSERT and the loser gets a unique violation (surfaced as 409):
//
//	CREATE UNIQUE INDEX uq_join_requests_pending
//	  ON join_requests (join_request_user_id, join_request_classroom_id)
//	  WHERE join_request_state = 'WAITING' AND join_request_deleted_at IS NULL;
type JoinRequestModel struct {
	JoinRequestID          uuid.UUID  `json:"join_request_id"           gorm:"column:join_request_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	JoinRequestUserID      uuid.UUID  `json:"join_request_user_id"      gorm:"column:join_request_user_id;type:uuid;not null"`
	JoinRequestClassroomID uuid.UUID  `json:"join_request_classroom_id" gorm:"column:join_request_classroom_id;type:uuid;not null"`
	JoinRequestRole        string     `json:"join_request_role"         gorm:"column:join_request_role;type:varchar(16);not null;default:'STUDENT'"`
	JoinRequestState       string     `json:"join_request_state"        gorm:"column:join_request_state;type:varchar(16);not null;default:'WAITING'"`
	JoinRequestReviewerID  *uuid.UUID `json:"join_request_reviewer_id,omitempty" gorm:"column:join_request_reviewer_id;type:uuid"`

	JoinRequestCreatedAt time.Time      `json:"join_request_created_at" gorm:"column:join_request_created_at;type:timestamptz;not null;default:now();autoCreateTime"`
	JoinRequestUpdatedAt time.Time      `json:"join_request_updated_at" gorm:"column:join_request_updated_at;type:timestamptz;not null;default:now();autoUpdateTime"`
	JoinRequestDeletedAt gorm.DeletedAt `json:"join_request_deleted_at,omitempty" gorm:"column:join_request_deleted_at;type:timestamptz;index"`
}

func (JoinRequestModel) TableName() string { return "join_requests" }
