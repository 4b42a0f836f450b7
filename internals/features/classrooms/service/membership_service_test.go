// file: internals/features/classrooms/service/membership_service_test.go
package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tubuzu/learn-together-backend/internals/constants"
	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/model"
)

func newTestClassroom(isPublic bool, members ...uuid.UUID) *model.ClassroomModel {
	participants := make(pq.StringArray, 0, len(members))
	for _, m := range members {
		participants = append(participants, m.String())
	}
	cls := &model.ClassroomModel{
		ClassroomID:                  uuid.New(),
		ClassroomName:                "calculus crash course",
		ClassroomCurrentParticipants: participants,
		ClassroomMaxParticipants:     3,
		ClassroomState:               constants.ClassroomStateWaiting,
		ClassroomAvailable:           true,
		ClassroomIsPublic:            isPublic,
	}
	if !isPublic {
		cls.ClassroomSecretKey = "s3cret"
	}
	return cls
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected status %d, got nil error", status)
	}
	fe, ok := err.(*fiber.Error)
	if !ok {
		t.Fatalf("expected *fiber.Error, got %T: %v", err, err)
	}
	if fe.Code != status {
		t.Fatalf("expected status %d, got %d (%s)", status, fe.Code, fe.Message)
	}
}

func TestValidateJoinPublicRoom(t *testing.T) {
	owner := uuid.New()
	joiner := uuid.New()

	t.Run("student join passes", func(t *testing.T) {
		cls := newTestClassroom(true, owner)
		if err := validateJoin(cls, joiner, constants.ClassroomMemberRoleStudent, "", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("private room rejects direct join", func(t *testing.T) {
		cls := newTestClassroom(false, owner)
		wantStatus(t, validateJoin(cls, joiner, constants.ClassroomMemberRoleStudent, "", false), fiber.StatusBadRequest)
	})

	t.Run("existing member cannot join twice", func(t *testing.T) {
		cls := newTestClassroom(true, owner, joiner)
		wantStatus(t, validateJoin(cls, joiner, constants.ClassroomMemberRoleStudent, "", false), fiber.StatusBadRequest)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		cls := newTestClassroom(true, owner)
		wantStatus(t, validateJoin(cls, joiner, "PRINCIPAL", "", false), fiber.StatusBadRequest)
	})

	t.Run("tutor join blocked when seat taken", func(t *testing.T) {
		cls := newTestClassroom(true, owner)
		tutor := owner
		cls.ClassroomTutorID = &tutor
		wantStatus(t, validateJoin(cls, joiner, constants.ClassroomMemberRoleTutor, "", false), fiber.StatusBadRequest)
	})

	t.Run("full room conflicts", func(t *testing.T) {
		cls := newTestClassroom(true, owner, uuid.New(), uuid.New())
		cls.ClassroomAvailable = false
		wantStatus(t, validateJoin(cls, joiner, constants.ClassroomMemberRoleStudent, "", false), fiber.StatusConflict)
	})

	t.Run("unavailable room conflicts", func(t *testing.T) {
		cls := newTestClassroom(true, owner)
		cls.ClassroomAvailable = false
		wantStatus(t, validateJoin(cls, joiner, constants.ClassroomMemberRoleStudent, "", false), fiber.StatusConflict)
	})
}

func TestValidateJoinPrivateRoom(t *testing.T) {
	owner := uuid.New()
	joiner := uuid.New()

	t.Run("correct key passes", func(t *testing.T) {
		cls := newTestClassroom(false, owner)
		if err := validateJoin(cls, joiner, constants.ClassroomMemberRoleStudent, "s3cret", true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("wrong key is rejected", func(t *testing.T) {
		cls := newTestClassroom(false, owner)
		wantStatus(t, validateJoin(cls, joiner, constants.ClassroomMemberRoleStudent, "nope", true), fiber.StatusBadRequest)
	})

	t.Run("public room rejects keyed join", func(t *testing.T) {
		cls := newTestClassroom(true, owner)
		wantStatus(t, validateJoin(cls, joiner, constants.ClassroomMemberRoleStudent, "s3cret", true), fiber.StatusBadRequest)
	})
}

func TestMapJoinRequestCreateError(t *testing.T) {
	if err := mapJoinRequestCreateError(nil); err != nil {
		t.Fatalf("unexpected error for clean insert: %v", err)
	}

	// losing the pending-request insert race surfaces as a conflict
	dup := fmt.Errorf("insert join_requests: %w", gorm.ErrDuplicatedKey)
	wantStatus(t, mapJoinRequestCreateError(dup), fiber.StatusConflict)

	wantStatus(t, mapJoinRequestCreateError(errors.New("connection reset")), fiber.StatusInternalServerError)
}

func TestClassroomModelHelpers(t *testing.T) {
	owner := uuid.New()
	member := uuid.New()
	stranger := uuid.New()

	cls := newTestClassroom(true, owner, member)

	if !cls.HasParticipant(member) {
		t.Error("HasParticipant should report a current member")
	}
	if cls.HasParticipant(stranger) {
		t.Error("HasParticipant should not report a stranger")
	}
	if cls.IsFull() {
		t.Error("room with 2/3 seats should not be full")
	}

	cls.ClassroomCurrentParticipants = append(cls.ClassroomCurrentParticipants, stranger.String())
	if !cls.IsFull() {
		t.Error("room with 3/3 seats should be full")
	}

	if cls.IsTutor(owner) {
		t.Error("no tutor assigned yet")
	}
	cls.ClassroomTutorID = &owner
	if !cls.IsTutor(owner) {
		t.Error("IsTutor should report the assigned tutor")
	}
	if cls.IsTutor(member) {
		t.Error("IsTutor should not report a non-tutor")
	}
}
