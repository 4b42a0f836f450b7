// file: internals/features/classrooms/model/classroom_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ClassroomModel maps the classrooms table (per DDL).
//
// Participant arrays hold user ids as text so membership predicates can be
// expressed directly in SQL (= ANY, array_append, array_remove) and the
// conditional UPDATE stays the single arbiter of capacity races.
type ClassroomModel struct {
	// PK
	ClassroomID uuid.UUID `json:"classroom_id" gorm:"column:classroom_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	// Identity
	ClassroomName        string    `json:"classroom_name"        gorm:"column:classroom_name;type:varchar(120);not null"`
	ClassroomSubjectID   uuid.UUID `json:"classroom_subject_id"  gorm:"column:classroom_subject_id;type:uuid;not null"`
	ClassroomDescription *string   `json:"classroom_description,omitempty" gorm:"column:classroom_description;type:text"`

	// Roles
	ClassroomCreatorID uuid.UUID  `json:"classroom_creator_id" gorm:"column:classroom_creator_id;type:uuid;not null"`
	ClassroomOwnerID   uuid.UUID  `json:"classroom_owner_id"   gorm:"column:classroom_owner_id;type:uuid;not null"`
	ClassroomTutorID   *uuid.UUID `json:"classroom_tutor_id,omitempty" gorm:"column:classroom_tutor_id;type:uuid"`

	// Membership
	ClassroomCurrentParticipants pq.StringArray `json:"classroom_current_participants" gorm:"column:classroom_current_participants;type:text[];not null;default:'{}'"`
	ClassroomHistoryParticipants pq.StringArray `json:"classroom_history_participants" gorm:"column:classroom_history_participants;type:text[];not null;default:'{}'"`
	ClassroomMaxParticipants     int            `json:"classroom_max_participants"     gorm:"column:classroom_max_participants;not null"` // 2..30 (checked in DB)

	// Lifecycle
	ClassroomState      string `json:"classroom_state"      gorm:"column:classroom_state;type:varchar(16);not null;default:'WAITING'"`
	ClassroomAvailable  bool   `json:"classroom_available"  gorm:"column:classroom_available;not null;default:true"`
	ClassroomTerminated bool   `json:"classroom_terminated" gorm:"column:classroom_terminated;not null;default:false"`

	// Visibility
	ClassroomIsPublic              bool   `json:"classroom_is_public"               gorm:"column:classroom_is_public;not null;default:false"`
	ClassroomOwnerApprovalRequired bool   `json:"classroom_owner_approval_required" gorm:"column:classroom_owner_approval_required;not null;default:false"`
	ClassroomSecretKey             string `json:"-"                                 gorm:"column:classroom_secret_key;type:varchar(64);not null;default:''"`

	// Location
	ClassroomLatitude  float64 `json:"classroom_latitude"  gorm:"column:classroom_latitude;not null"`
	ClassroomLongitude float64 `json:"classroom_longitude" gorm:"column:classroom_longitude;not null"`
	ClassroomAddress   string  `json:"classroom_address"   gorm:"column:classroom_address;type:text;not null"`

	// Schedule (UTC)
	ClassroomStartTime time.Time `json:"classroom_start_time" gorm:"column:classroom_start_time;type:timestamptz;not null"`
	ClassroomEndTime   time.Time `json:"classroom_end_time"   gorm:"column:classroom_end_time;type:timestamptz;not null"`

	// Audit
	ClassroomCreatedAt time.Time      `json:"classroom_created_at" gorm:"column:classroom_created_at;type:timestamptz;not null;default:now();autoCreateTime"`
	ClassroomUpdatedAt time.Time      `json:"classroom_updated_at" gorm:"column:classroom_updated_at;type:timestamptz;not null;default:now();autoUpdateTime"`
	ClassroomDeletedAt gorm.DeletedAt `json:"classroom_deleted_at,omitempty" gorm:"column:classroom_deleted_at;type:timestamptz;index"`
}

func (ClassroomModel) TableName() string { return "classrooms" }

// HasParticipant reports whether userID is in the current participant set.
func (m *ClassroomModel) HasParticipant(userID uuid.UUID) bool {
	uid := userID.String()
	for _, p := range m.ClassroomCurrentParticipants {
		if p == uid {
			return true
		}
	}
	return false
}

// IsFull reports whether the capacity bound is reached.
func (m *ClassroomModel) IsFull() bool {
	return len(m.ClassroomCurrentParticipants) >= m.ClassroomMaxParticipants
}

// IsTutor reports whether userID currently holds the tutor role.
func (m *ClassroomModel) IsTutor(userID uuid.UUID) bool {
	return m.ClassroomTutorID != nil && *m.ClassroomTutorID == userID
}
