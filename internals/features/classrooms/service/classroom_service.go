// file: internals/features/classrooms/service/classroom_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tubuzu/learn-together-backend/internals/constants"
	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/dto"
	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/model"
	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/scheduler"
	subjectModel "github.com/tubuzu/learn-together-backend/internals/features/subjects/model"
)

// ClassroomService owns the classroom lifecycle: creation, owner updates,
// scheduled WAITING→LEARNING→FINISHED transitions, manual termination and
// restart recovery. Membership changes live in MembershipService.
type ClassroomService struct {
	DB          *gorm.DB
	Scheduler   *scheduler.TransitionScheduler
	Credentials CredentialStore
	Notifier    Notifier
	Clock       scheduler.Clock
}

func NewClassroomService(db *gorm.DB, sched *scheduler.TransitionScheduler, creds CredentialStore, notif Notifier, clock scheduler.Clock) *ClassroomService {
	if clock == nil {
		clock = scheduler.NewRealClock()
	}
	return &ClassroomService{
		DB:          db,
		Scheduler:   sched,
		Credentials: creds,
		Notifier:    notif,
		Clock:       clock,
	}
}

/* =======================================================
   Shared lookups
======================================================= */

// getActive loads a non-terminated classroom or returns 404.
func getActive(db *gorm.DB, classroomID uuid.UUID) (*model.ClassroomModel, error) {
	var cls model.ClassroomModel
	err := db.
		Where("classroom_id = ? AND classroom_terminated = FALSE", classroomID).
		First(&cls).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Classroom not found!")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load classroom")
	}
	return &cls, nil
}

// countActiveClassrooms counts the non-terminated classrooms a user
// currently belongs to (join-cap enforcement).
func countActiveClassrooms(db *gorm.DB, userID uuid.UUID) (int64, error) {
	var n int64
	err := db.Model(&model.ClassroomModel{}).
		Where("classroom_terminated = FALSE AND ? = ANY(classroom_current_participants)", userID.String()).
		Count(&n).Error
	return n, err
}

// hasTimeConflict reports whether [start,end) intersects any non-terminated
// classroom the user belongs to. excludeID skips the classroom being
// updated (uuid.Nil to skip nothing).
func hasTimeConflict(db *gorm.DB, userID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (bool, error) {
	q := db.Model(&model.ClassroomModel{}).
		Where("classroom_terminated = FALSE AND ? = ANY(classroom_current_participants)", userID.String()).
		Where("classroom_start_time < ? AND classroom_end_time > ?", end, start)
	if excludeID != uuid.Nil {
		q = q.Where("classroom_id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func subjectExists(db *gorm.DB, subjectID uuid.UUID) (bool, error) {
	var n int64
	err := db.Model(&subjectModel.SubjectModel{}).
		Where("subject_id = ?", subjectID).
		Count(&n).Error
	return n > 0, err
}

/* =======================================================
   Create
======================================================= */

func (s *ClassroomService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateClassroomRequest) (*model.ClassroomModel, error) {
	db := s.DB.WithContext(ctx)
	now := s.Clock.Now()

	// creator counts against the same join cap as anybody else
	active, err := countActiveClassrooms(db, userID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to check classroom limit")
	}
	if active >= constants.MaxClassroomJoinLimit {
		return nil, fiber.NewError(fiber.StatusForbidden,
			fmt.Sprintf("You can only join a maximum of %d classrooms!", constants.MaxClassroomJoinLimit))
	}

	// public rooms carry no key; private rooms require one and gate by it,
	// so owner approval applies to public rooms only
	secretKey := req.SecretKey
	approval := req.OwnerApprovalRequired
	if req.IsPublic {
		secretKey = ""
	} else {
		if secretKey == "" {
			return nil, fiber.NewError(fiber.StatusBadRequest, "secretKey required for private classroom!")
		}
		approval = false
	}

	if !req.StartTime.Before(req.EndTime) || req.StartTime.Before(now) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid start and end time!")
	}

	conflict, err := hasTimeConflict(db, userID, req.StartTime, req.EndTime, uuid.Nil)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to check time conflict")
	}
	if conflict {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Study time conflict with another classroom you joined!")
	}

	ok, err := subjectExists(db, req.SubjectID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to check subject")
	}
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "Subject not found!")
	}

	var tutorID *uuid.UUID
	if req.OwnerIsTutor {
		hasProof, err := s.Credentials.HasCredential(ctx, userID, req.SubjectID)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to check proof of level")
		}
		if !hasProof {
			return nil, fiber.NewError(fiber.StatusForbidden, "You do not have any proof of level for this classroom subject!")
		}
		uid := userID
		tutorID = &uid
	}

	cls := model.ClassroomModel{
		ClassroomName:                  req.ClassroomName,
		ClassroomSubjectID:             req.SubjectID,
		ClassroomDescription:           req.Description,
		ClassroomCreatorID:             userID,
		ClassroomOwnerID:               userID,
		ClassroomTutorID:               tutorID,
		ClassroomCurrentParticipants:   pq.StringArray{userID.String()},
		ClassroomHistoryParticipants:   pq.StringArray{userID.String()},
		ClassroomMaxParticipants:       req.MaxParticipants,
		ClassroomState:                 constants.ClassroomStateWaiting,
		ClassroomAvailable:             true,
		ClassroomTerminated:            false,
		ClassroomIsPublic:              req.IsPublic,
		ClassroomOwnerApprovalRequired: approval,
		ClassroomSecretKey:             secretKey,
		ClassroomLatitude:              req.Latitude,
		ClassroomLongitude:             req.Longitude,
		ClassroomAddress:               req.Address,
		ClassroomStartTime:             req.StartTime.UTC(),
		ClassroomEndTime:               req.EndTime.UTC(),
	}
	if err := db.Create(&cls).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to create classroom")
	}

	s.Scheduler.Schedule(cls.ClassroomID, scheduler.TransitionStart, cls.ClassroomStartTime)
	s.Scheduler.Schedule(cls.ClassroomID, scheduler.TransitionEnd, cls.ClassroomEndTime)

	return &cls, nil
}

/* =======================================================
   Update (owner patch)
======================================================= */

func (s *ClassroomService) Update(ctx context.Context, classroomID, userID uuid.UUID, req *dto.UpdateClassroomRequest) (*model.ClassroomModel, error) {
	db := s.DB.WithContext(ctx)

	cls, err := getActive(db, classroomID)
	if err != nil {
		return nil, err
	}
	if cls.ClassroomState == constants.ClassroomStateFinished {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Classroom already finished!")
	}
	if cls.ClassroomOwnerID != userID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Only owner can update study classroom!")
	}
	if req.IsEmpty() {
		return cls, nil
	}

	now := s.Clock.Now()
	startChanged := req.StartTime != nil && !req.StartTime.Equal(cls.ClassroomStartTime)
	endChanged := req.EndTime != nil && !req.EndTime.Equal(cls.ClassroomEndTime)
	newStart := cls.ClassroomStartTime
	newEnd := cls.ClassroomEndTime
	if startChanged {
		newStart = req.StartTime.UTC()
	}
	if endChanged {
		newEnd = req.EndTime.UTC()
	}

	if startChanged || endChanged {
		if startChanged && newStart.Before(now) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid start and end time!")
		}
		if !newStart.Before(newEnd) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid start and end time!")
		}
		conflict, err := hasTimeConflict(db, userID, newStart, newEnd, classroomID)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to check time conflict")
		}
		if conflict {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Study time conflict with another classroom you joined!")
		}
	}

	updates := map[string]any{}
	if req.ClassroomName != nil {
		updates["classroom_name"] = *req.ClassroomName
	}
	if req.Address != nil {
		updates["classroom_address"] = *req.Address
	}
	if req.Description != nil {
		updates["classroom_description"] = *req.Description
	}
	if req.Latitude != nil {
		updates["classroom_latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["classroom_longitude"] = *req.Longitude
	}
	if req.SubjectID != nil && *req.SubjectID != cls.ClassroomSubjectID {
		ok, err := subjectExists(db, *req.SubjectID)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to check subject")
		}
		if !ok {
			return nil, fiber.NewError(fiber.StatusNotFound, "Subject not found!")
		}
		updates["classroom_subject_id"] = *req.SubjectID
		// the tutor was validated against the old subject; drop the role
		if cls.ClassroomTutorID != nil {
			updates["classroom_tutor_id"] = nil
		}
	}
	if startChanged {
		updates["classroom_start_time"] = newStart
	}
	if endChanged {
		updates["classroom_end_time"] = newEnd
	}
	if st := patchedState(startChanged); st != "" {
		updates["classroom_state"] = st
	}
	if len(updates) == 0 {
		return cls, nil
	}

	res := db.Model(&model.ClassroomModel{}).
		Where("classroom_id = ? AND classroom_terminated = FALSE", classroomID).
		Updates(updates)
	if res.Error != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to update classroom")
	}
	if res.RowsAffected == 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "Classroom was ended concurrently!")
	}

	// re-arm triggers after the row is written so a firing timer reads
	// the new schedule, not the superseded one
	if startChanged {
		s.Scheduler.Schedule(classroomID, scheduler.TransitionStart, newStart)
	}
	if endChanged {
		s.Scheduler.Schedule(classroomID, scheduler.TransitionEnd, newEnd)
	}

	return getActive(db, classroomID)
}

/* =======================================================
   End (manual termination) + shared terminate
======================================================= */

func (s *ClassroomService) End(ctx context.Context, classroomID, userID uuid.UUID) (*model.ClassroomModel, error) {
	db := s.DB.WithContext(ctx)

	cls, err := getActive(db, classroomID)
	if err != nil {
		return nil, err
	}
	if cls.ClassroomOwnerID != userID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Only owner can end study classroom!")
	}

	if err := terminateClassroom(db, s.Scheduler, s.Notifier, cls, userID); err != nil {
		return nil, err
	}

	var ended model.ClassroomModel
	if err := db.First(&ended, "classroom_id = ?", classroomID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load classroom")
	}
	return &ended, nil
}

// terminateClassroom performs the definitive early end shared by owner End
// and last-participant/owner Leave: the conditional update is the race
// guard against a concurrent scheduled transition or a second terminate.
func terminateClassroom(db *gorm.DB, sched *scheduler.TransitionScheduler, notif Notifier, cls *model.ClassroomModel, byUser uuid.UUID) error {
	res := db.Model(&model.ClassroomModel{}).
		Where("classroom_id = ? AND classroom_terminated = FALSE", cls.ClassroomID).
		Updates(map[string]any{
			"classroom_state":                constants.ClassroomStateFinished,
			"classroom_available":            false,
			"classroom_terminated":           true,
			"classroom_current_participants": pq.StringArray{},
		})
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to end classroom")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusConflict, "Classroom already ended!")
	}

	sched.CancelAll(cls.ClassroomID)

	for _, p := range cls.ClassroomCurrentParticipants {
		uid, err := uuid.Parse(p)
		if err != nil || uid == byUser {
			continue
		}
		notify(notif, constants.NotiClassroomTerminated, byUser, uid, cls.ClassroomID,
			fmt.Sprintf("Classroom %q has been ended by its owner.", cls.ClassroomName))
	}
	return nil
}

/* =======================================================
   Scheduled transitions
======================================================= */

// TransitionOnSchedule is the scheduler callback. Errors are logged only —
// there is no caller to report to; a lost write is reconciled by the next
// restart scan. Firing against an already-transitioned or terminated room
// is a silent no-op.
func (s *ClassroomService) TransitionOnSchedule(classroomID uuid.UUID, kind scheduler.TransitionKind) {
	ctx := context.Background()
	db := s.DB.WithContext(ctx)

	var cls model.ClassroomModel
	if err := db.First(&cls, "classroom_id = ?", classroomID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[SCHEDULER] load failed classroom=%s kind=%s err=%v", classroomID, kind, err)
		}
		return
	}
	if cls.ClassroomTerminated {
		return
	}

	switch kind {
	case scheduler.TransitionStart:
		res := db.Model(&model.ClassroomModel{}).
			Where("classroom_id = ? AND classroom_state = ? AND classroom_terminated = FALSE",
				classroomID, constants.ClassroomStateWaiting).
			Update("classroom_state", constants.ClassroomStateLearning)
		if res.Error != nil {
			log.Printf("[SCHEDULER] START transition failed classroom=%s err=%v", classroomID, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			return
		}
		log.Printf("[SCHEDULER] classroom=%s WAITING -> LEARNING", classroomID)
		s.broadcast(&cls, constants.NotiClassroomStarted,
			fmt.Sprintf("Classroom %q has started!", cls.ClassroomName))

	case scheduler.TransitionEnd:
		res := db.Model(&model.ClassroomModel{}).
			Where("classroom_id = ? AND classroom_state IN ? AND classroom_terminated = FALSE",
				classroomID, []string{constants.ClassroomStateWaiting, constants.ClassroomStateLearning}).
			Updates(map[string]any{
				"classroom_state":     constants.ClassroomStateFinished,
				"classroom_available": false,
			})
		if res.Error != nil {
			log.Printf("[SCHEDULER] END transition failed classroom=%s err=%v", classroomID, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			return
		}
		log.Printf("[SCHEDULER] classroom=%s -> FINISHED", classroomID)
		s.broadcast(&cls, constants.NotiClassroomFinished,
			fmt.Sprintf("Classroom %q has finished.", cls.ClassroomName))
	}
}

func (s *ClassroomService) broadcast(cls *model.ClassroomModel, code, content string) {
	for _, p := range cls.ClassroomCurrentParticipants {
		uid, err := uuid.Parse(p)
		if err != nil {
			continue
		}
		notify(s.Notifier, code, uuid.Nil, uid, cls.ClassroomID, content)
	}
}

/* =======================================================
   Restart recovery
======================================================= */

// RecoverOnRestart scans all non-terminated classrooms, corrects any state
// column left stale by a crash or missed trigger, and re-arms exactly the
// still-future transitions.
func (s *ClassroomService) RecoverOnRestart(ctx context.Context) error {
	db := s.DB.WithContext(ctx)

	var rooms []model.ClassroomModel
	if err := db.Where("classroom_terminated = FALSE").Find(&rooms).Error; err != nil {
		return err
	}

	now := s.Clock.Now()
	corrected, armed := 0, 0

	for i := range rooms {
		cls := &rooms[i]
		expected := expectedState(now, cls.ClassroomStartTime, cls.ClassroomEndTime)
		if expected != cls.ClassroomState {
			updates := map[string]any{"classroom_state": expected}
			if expected == constants.ClassroomStateFinished {
				updates["classroom_available"] = false
			}
			res := db.Model(&model.ClassroomModel{}).
				Where("classroom_id = ? AND classroom_state = ? AND classroom_terminated = FALSE",
					cls.ClassroomID, cls.ClassroomState).
				Updates(updates)
			if res.Error != nil {
				log.Printf("[RECOVER] state fix failed classroom=%s err=%v", cls.ClassroomID, res.Error)
				continue
			}
			if res.RowsAffected > 0 {
				corrected++
			}
		}

		switch {
		case now.Before(cls.ClassroomStartTime):
			s.Scheduler.Schedule(cls.ClassroomID, scheduler.TransitionStart, cls.ClassroomStartTime)
			s.Scheduler.Schedule(cls.ClassroomID, scheduler.TransitionEnd, cls.ClassroomEndTime)
			armed += 2
		case now.Before(cls.ClassroomEndTime):
			s.Scheduler.Schedule(cls.ClassroomID, scheduler.TransitionEnd, cls.ClassroomEndTime)
			armed++
		}
	}

	log.Printf("[RECOVER] scanned=%d corrected=%d triggers=%d", len(rooms), corrected, armed)
	return nil
}

/* =======================================================
   Reads
======================================================= */

func (s *ClassroomService) GetByID(ctx context.Context, classroomID uuid.UUID) (*model.ClassroomModel, error) {
	var cls model.ClassroomModel
	err := s.DB.WithContext(ctx).First(&cls, "classroom_id = ?", classroomID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Classroom not found!")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load classroom")
	}
	return &cls, nil
}
