// file: internals/features/classrooms/service/membership_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tubuzu/learn-together-backend/internals/constants"
	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/model"
	"github.com/tubuzu/learn-together-backend/internals/features/classrooms/scheduler"
	helper "github.com/tubuzu/learn-together-backend/internals/helpers"
)

// MembershipService owns every change to the participant set: joins (direct
// and approval-gated), leaves, kicks and role transfers. The participant
// array is only ever mutated through conditional UPDATEs so concurrent
// joins cannot overshoot capacity.
type MembershipService struct {
	DB          *gorm.DB
	Scheduler   *scheduler.TransitionScheduler
	Credentials CredentialStore
	Notifier    Notifier
	Clock       scheduler.Clock
}

func NewMembershipService(db *gorm.DB, sched *scheduler.TransitionScheduler, creds CredentialStore, notif Notifier, clock scheduler.Clock) *MembershipService {
	if clock == nil {
		clock = scheduler.NewRealClock()
	}
	return &MembershipService{
		DB:          db,
		Scheduler:   sched,
		Credentials: creds,
		Notifier:    notif,
		Clock:       clock,
	}
}

/* =======================================================
   Join validation (pure, testable)
======================================================= */

// validateJoin runs the checks that only need the classroom snapshot.
// Capacity is re-checked atomically by the admit UPDATE; the snapshot
// check here just produces a friendlier error on the common path.
func validateJoin(cls *model.ClassroomModel, userID uuid.UUID, role, secretKey string, private bool) error {
	if private {
		if cls.ClassroomIsPublic {
			return fiber.NewError(fiber.StatusBadRequest, "This is a public classroom, join it directly!")
		}
		if secretKey != cls.ClassroomSecretKey {
			return fiber.NewError(fiber.StatusBadRequest, "Wrong secret key!")
		}
	} else if !cls.ClassroomIsPublic {
		return fiber.NewError(fiber.StatusBadRequest, "This is a private classroom, a secret key is required!")
	}

	if cls.HasParticipant(userID) {
		return fiber.NewError(fiber.StatusBadRequest, "You already joined this classroom!")
	}

	switch role {
	case constants.ClassroomMemberRoleStudent:
	case constants.ClassroomMemberRoleTutor:
		if cls.ClassroomTutorID != nil {
			return fiber.NewError(fiber.StatusBadRequest, "This classroom already has a tutor!")
		}
	default:
		return fiber.NewError(fiber.StatusBadRequest, "Invalid classroom role!")
	}

	if cls.IsFull() {
		return fiber.NewError(fiber.StatusConflict, "Classroom is full!")
	}
	if !cls.ClassroomAvailable {
		return fiber.NewError(fiber.StatusConflict, "Classroom is no longer accepting members!")
	}
	return nil
}

// checkTutorRole verifies the proof-of-level requirement for a TUTOR join.
func (s *MembershipService) checkTutorRole(ctx context.Context, userID uuid.UUID, cls *model.ClassroomModel, role string) error {
	if role != constants.ClassroomMemberRoleTutor {
		return nil
	}
	hasProof, err := s.Credentials.HasCredential(ctx, userID, cls.ClassroomSubjectID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check proof of level")
	}
	if !hasProof {
		return fiber.NewError(fiber.StatusForbidden, "You do not have any proof of level for this classroom subject!")
	}
	return nil
}

// checkJoinEligibility covers the user-side constraints: join cap and
// schedule conflicts against the user's other classrooms.
func checkJoinEligibility(db *gorm.DB, userID uuid.UUID, cls *model.ClassroomModel) error {
	active, err := countActiveClassrooms(db, userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check classroom limit")
	}
	if active >= constants.MaxClassroomJoinLimit {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("You can only join a maximum of %d classrooms!", constants.MaxClassroomJoinLimit))
	}

	conflict, err := hasTimeConflict(db, userID, cls.ClassroomStartTime, cls.ClassroomEndTime, cls.ClassroomID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to check time conflict")
	}
	if conflict {
		return fiber.NewError(fiber.StatusBadRequest, "Study time conflict with another classroom you joined!")
	}
	return nil
}

/* =======================================================
   Join flows
======================================================= */

// JoinResult distinguishes a direct admission from a pending approval.
type JoinResult struct {
	Classroom   *model.ClassroomModel
	JoinRequest *model.JoinRequestModel
}

// JoinPublic joins a public classroom. When the owner requires approval a
// WAITING join request is filed instead of admitting directly.
func (s *MembershipService) JoinPublic(ctx context.Context, classroomID, userID uuid.UUID, role string) (*JoinResult, error) {
	db := s.DB.WithContext(ctx)

	cls, err := getActive(db, classroomID)
	if err != nil {
		return nil, err
	}
	if err := validateJoin(cls, userID, role, "", false); err != nil {
		return nil, err
	}
	if err := s.checkTutorRole(ctx, userID, cls, role); err != nil {
		return nil, err
	}
	if err := checkJoinEligibility(db, userID, cls); err != nil {
		return nil, err
	}

	if cls.ClassroomOwnerApprovalRequired {
		req, err := s.fileJoinRequest(db, cls, userID, role)
		if err != nil {
			return nil, err
		}
		return &JoinResult{JoinRequest: req}, nil
	}

	if err := s.admit(db, cls, userID, role); err != nil {
		return nil, err
	}
	notify(s.Notifier, constants.NotiClassroomNewMember, userID, cls.ClassroomOwnerID, cls.ClassroomID,
		fmt.Sprintf("A new member joined classroom %q.", cls.ClassroomName))

	if err := s.reload(db, cls); err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load classroom")
	}
	return &JoinResult{Classroom: cls}, nil
}

// JoinPrivate joins a private classroom by secret key. The key is the
// gate, so owner approval never applies here.
func (s *MembershipService) JoinPrivate(ctx context.Context, classroomID, userID uuid.UUID, role, secretKey string) (*JoinResult, error) {
	db := s.DB.WithContext(ctx)

	cls, err := getActive(db, classroomID)
	if err != nil {
		return nil, err
	}
	if err := validateJoin(cls, userID, role, secretKey, true); err != nil {
		return nil, err
	}
	if err := s.checkTutorRole(ctx, userID, cls, role); err != nil {
		return nil, err
	}
	if err := checkJoinEligibility(db, userID, cls); err != nil {
		return nil, err
	}

	if err := s.admit(db, cls, userID, role); err != nil {
		return nil, err
	}
	notify(s.Notifier, constants.NotiClassroomNewMember, userID, cls.ClassroomOwnerID, cls.ClassroomID,
		fmt.Sprintf("A new member joined classroom %q.", cls.ClassroomName))

	if err := s.reload(db, cls); err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load classroom")
	}
	return &JoinResult{Classroom: cls}, nil
}

// admit appends the user to the participant array. The WHERE clause is the
// single capacity arbiter: availability, duplicate membership and the
// cardinality bound are all re-checked inside the same UPDATE, so two
// racing joins for the last seat resolve to exactly one winner.
func (s *MembershipService) admit(db *gorm.DB, cls *model.ClassroomModel, userID uuid.UUID, role string) error {
	uid := userID.String()

	updates := map[string]any{
		"classroom_current_participants": gorm.Expr("array_append(classroom_current_participants, ?)", uid),
		"classroom_history_participants": gorm.Expr(
			"CASE WHEN ? = ANY(classroom_history_participants) THEN classroom_history_participants ELSE array_append(classroom_history_participants, ?) END",
			uid, uid),
		"classroom_available": gorm.Expr("cardinality(classroom_current_participants) + 1 < classroom_max_participants"),
	}
	if role == constants.ClassroomMemberRoleTutor {
		updates["classroom_tutor_id"] = userID
	}

	q := db.Model(&model.ClassroomModel{}).
		Where("classroom_id = ? AND classroom_terminated = FALSE AND classroom_available = TRUE", cls.ClassroomID).
		Where("NOT (? = ANY(classroom_current_participants))", uid).
		Where("cardinality(classroom_current_participants) < classroom_max_participants")
	if role == constants.ClassroomMemberRoleTutor {
		q = q.Where("classroom_tutor_id IS NULL")
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to join classroom")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusConflict, "Classroom is full or no longer accepting members!")
	}
	return nil
}

func (s *MembershipService) reload(db *gorm.DB, cls *model.ClassroomModel) error {
	return db.First(cls, "classroom_id = ?", cls.ClassroomID).Error
}

/* =======================================================
   Join requests (approval-gated public rooms)
======================================================= */

// fileJoinRequest creates the WAITING row. The snapshot count only gives
// the common path a friendlier 400; the partial unique index on pending
// (user, classroom) pairs is the actual arbiter, so a lost INSERT race
// surfaces as 409 via mapJoinRequestCreateError.
func (s *MembershipService) fileJoinRequest(db *gorm.DB, cls *model.ClassroomModel, userID uuid.UUID, role string) (*model.JoinRequestModel, error) {
	var pending int64
	err := db.Model(&model.JoinRequestModel{}).
		Where("join_request_user_id = ? AND join_request_classroom_id = ? AND join_request_state = ?",
			userID, cls.ClassroomID, constants.RequestStateWaiting).
		Count(&pending).Error
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to check join requests")
	}
	if pending > 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "You already requested to join this classroom!")
	}

	req := model.JoinRequestModel{
		JoinRequestUserID:      userID,
		JoinRequestClassroomID: cls.ClassroomID,
		JoinRequestRole:        role,
		JoinRequestState:       constants.RequestStateWaiting,
	}
	if err := mapJoinRequestCreateError(db.Create(&req).Error); err != nil {
		return nil, err
	}

	notify(s.Notifier, constants.NotiClassroomNewMember, userID, cls.ClassroomOwnerID, cls.ClassroomID,
		fmt.Sprintf("Someone requested to join classroom %q.", cls.ClassroomName))
	return &req, nil
}

// mapJoinRequestCreateError translates the INSERT outcome: a violation of
// the pending-request unique index (gorm.ErrDuplicatedKey once the gorm
// error translator is on) means a concurrent request won the race.
func mapJoinRequestCreateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fiber.NewError(fiber.StatusConflict, "You already requested to join this classroom!")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Failed to create join request")
}

// AcceptJoinRequest admits the requester. All join preconditions are
// re-validated: the room may have filled, finished or gained a tutor since
// the request was filed.
func (s *MembershipService) AcceptJoinRequest(ctx context.Context, requestID, reviewerID uuid.UUID) (*model.JoinRequestModel, error) {
	db := s.DB.WithContext(ctx)

	req, err := getWaitingRequest(db, requestID)
	if err != nil {
		return nil, err
	}
	cls, err := getActive(db, req.JoinRequestClassroomID)
	if err != nil {
		return nil, err
	}
	if cls.ClassroomOwnerID != reviewerID {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Only owner can review join requests!")
	}

	if err := validateJoin(cls, req.JoinRequestUserID, req.JoinRequestRole, "", false); err != nil {
		return nil, err
	}
	if err := s.checkTutorRole(ctx, req.JoinRequestUserID, cls, req.JoinRequestRole); err != nil {
		return nil, err
	}
	if err := checkJoinEligibility(db, req.JoinRequestUserID, cls); err != nil {
		return nil, err
	}
	if err := s.admit(db, cls, req.JoinRequestUserID, req.JoinRequestRole); err != nil {
		return nil, err
	}

	if err := resolveRequest(db, req, constants.RequestStateAccepted, reviewerID); err != nil {
		return nil, err
	}
	notify(s.Notifier, constants.NotiClassroomJoinRequestAccepted, reviewerID, req.JoinRequestUserID, cls.ClassroomID,
		fmt.Sprintf("Your request to join classroom %q was accepted.", cls.ClassroomName))
	return req, nil
}

func (s *MembershipService) RejectJoinRequest(ctx context.Context, requestID, reviewerID uuid.UUID) (*model.JoinRequestModel, error) {
	db := s.DB.WithContext(ctx)

	req, err := getWaitingRequest(db, requestID)
	if err != nil {
		return nil, err
	}
	cls, err := getActive(db, req.JoinRequestClassroomID)
	if err != nil {
		return nil, err
	}
	if cls.ClassroomOwnerID != reviewerID {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Only owner can review join requests!")
	}

	if err := resolveRequest(db, req, constants.RequestStateRejected, reviewerID); err != nil {
		return nil, err
	}
	notify(s.Notifier, constants.NotiClassroomJoinRequestRejected, reviewerID, req.JoinRequestUserID, cls.ClassroomID,
		fmt.Sprintf("Your request to join classroom %q was rejected.", cls.ClassroomName))
	return req, nil
}

func getWaitingRequest(db *gorm.DB, requestID uuid.UUID) (*model.JoinRequestModel, error) {
	var req model.JoinRequestModel
	err := db.First(&req, "join_request_id = ?", requestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Join request not found!")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load join request")
	}
	if req.JoinRequestState != constants.RequestStateWaiting {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Join request already reviewed!")
	}
	return &req, nil
}

// resolveRequest flips a WAITING request; the state guard in the WHERE
// makes double reviews lose cleanly.
func resolveRequest(db *gorm.DB, req *model.JoinRequestModel, state string, reviewerID uuid.UUID) error {
	res := db.Model(&model.JoinRequestModel{}).
		Where("join_request_id = ? AND join_request_state = ?", req.JoinRequestID, constants.RequestStateWaiting).
		Updates(map[string]any{
			"join_request_state":       state,
			"join_request_reviewer_id": reviewerID,
		})
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update join request")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusConflict, "Join request was reviewed concurrently!")
	}
	req.JoinRequestState = state
	req.JoinRequestReviewerID = &reviewerID
	return nil
}

// ListJoinRequests returns the WAITING queue of a classroom, oldest first.
// Owner only.
func (s *MembershipService) ListJoinRequests(ctx context.Context, classroomID, userID uuid.UUID, p helper.Paging) ([]model.JoinRequestModel, int64, error) {
	db := s.DB.WithContext(ctx)

	cls, err := getActive(db, classroomID)
	if err != nil {
		return nil, 0, err
	}
	if cls.ClassroomOwnerID != userID {
		return nil, 0, fiber.NewError(fiber.StatusUnauthorized, "Only owner can view join requests!")
	}

	q := db.Model(&model.JoinRequestModel{}).
		Where("join_request_classroom_id = ? AND join_request_state = ?", classroomID, constants.RequestStateWaiting)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fiber.NewError(fiber.StatusInternalServerError, "Failed to count join requests")
	}

	var rows []model.JoinRequestModel
	if err := q.Order("join_request_created_at ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, fiber.NewError(fiber.StatusInternalServerError, "Failed to list join requests")
	}
	return rows, total, nil
}

/* =======================================================
   Leave / Kick
======================================================= */

// Leave removes the caller from the participant set. When the caller is the
// owner, or the last participant, the classroom is terminated instead:
// ownership never dangles and empty rooms do not linger.
func (s *MembershipService) Leave(ctx context.Context, classroomID, userID uuid.UUID) (*model.ClassroomModel, error) {
	db := s.DB.WithContext(ctx)

	cls, err := getActive(db, classroomID)
	if err != nil {
		return nil, err
	}
	if !cls.HasParticipant(userID) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "You are not in this classroom!")
	}

	if cls.ClassroomOwnerID == userID || len(cls.ClassroomCurrentParticipants) == 1 {
		if err := terminateClassroom(db, s.Scheduler, s.Notifier, cls, userID); err != nil {
			return nil, err
		}
	} else {
		if err := removeParticipant(db, cls, userID); err != nil {
			return nil, err
		}
	}

	return s.refreshed(db, classroomID)
}

// Kick removes a member by owner decision. Owners cannot kick themselves;
// Leave is the way out for an owner.
func (s *MembershipService) Kick(ctx context.Context, classroomID, ownerID, targetID uuid.UUID) (*model.ClassroomModel, error) {
	db := s.DB.WithContext(ctx)

	cls, err := getActive(db, classroomID)
	if err != nil {
		return nil, err
	}
	if cls.ClassroomOwnerID != ownerID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Only owner can kick a member!")
	}
	if targetID == ownerID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Owner cannot kick themselves!")
	}
	if !cls.HasParticipant(targetID) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "User is not in this classroom!")
	}

	if err := removeParticipant(db, cls, targetID); err != nil {
		return nil, err
	}
	notify(s.Notifier, constants.NotiClassroomMemberKicked, ownerID, targetID, cls.ClassroomID,
		fmt.Sprintf("You were removed from classroom %q.", cls.ClassroomName))

	return s.refreshed(db, classroomID)
}

// removeParticipant pulls userID from the current set and recomputes
// availability in the same statement. History membership is kept. The tutor
// role is vacated when the tutor is the one leaving.
func removeParticipant(db *gorm.DB, cls *model.ClassroomModel, userID uuid.UUID) error {
	uid := userID.String()

	updates := map[string]any{
		"classroom_current_participants": gorm.Expr("array_remove(classroom_current_participants, ?)", uid),
		"classroom_available": gorm.Expr(
			"classroom_state <> ? AND cardinality(array_remove(classroom_current_participants, ?)) < classroom_max_participants",
			constants.ClassroomStateFinished, uid),
	}
	if cls.IsTutor(userID) {
		updates["classroom_tutor_id"] = nil
	}

	res := db.Model(&model.ClassroomModel{}).
		Where("classroom_id = ? AND classroom_terminated = FALSE AND ? = ANY(classroom_current_participants)",
			cls.ClassroomID, uid).
		Updates(updates)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to leave classroom")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusConflict, "Membership changed concurrently!")
	}
	return nil
}

func (s *MembershipService) refreshed(db *gorm.DB, classroomID uuid.UUID) (*model.ClassroomModel, error) {
	var cls model.ClassroomModel
	if err := db.First(&cls, "classroom_id = ?", classroomID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load classroom")
	}
	return &cls, nil
}

/* =======================================================
   Role transfers
======================================================= */

// TransferTutor assigns the tutor role to a current participant who holds a
// proof of level for the classroom subject.
func (s *MembershipService) TransferTutor(ctx context.Context, classroomID, ownerID, newTutorID uuid.UUID) (*model.ClassroomModel, error) {
	db := s.DB.WithContext(ctx)

	cls, err := getActive(db, classroomID)
	if err != nil {
		return nil, err
	}
	if cls.ClassroomOwnerID != ownerID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Only owner can update classroom tutor!")
	}
	if !cls.HasParticipant(newTutorID) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "New tutor must be a classroom participant!")
	}
	if cls.IsTutor(newTutorID) {
		return cls, nil
	}

	hasProof, err := s.Credentials.HasCredential(ctx, newTutorID, cls.ClassroomSubjectID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to check proof of level")
	}
	if !hasProof {
		return nil, fiber.NewError(fiber.StatusForbidden, "User does not have any proof of level for this classroom subject!")
	}

	res := db.Model(&model.ClassroomModel{}).
		Where("classroom_id = ? AND classroom_terminated = FALSE", classroomID).
		Update("classroom_tutor_id", newTutorID)
	if res.Error != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to update tutor")
	}
	if res.RowsAffected == 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "Classroom was ended concurrently!")
	}

	notify(s.Notifier, constants.NotiClassroomTutorUpdated, ownerID, newTutorID, cls.ClassroomID,
		fmt.Sprintf("You are now the tutor of classroom %q.", cls.ClassroomName))
	return s.refreshed(db, classroomID)
}

// TransferOwner hands ownership to another current participant.
func (s *MembershipService) TransferOwner(ctx context.Context, classroomID, ownerID, newOwnerID uuid.UUID) (*model.ClassroomModel, error) {
	db := s.DB.WithContext(ctx)

	cls, err := getActive(db, classroomID)
	if err != nil {
		return nil, err
	}
	if cls.ClassroomOwnerID != ownerID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Only owner can transfer ownership!")
	}
	if newOwnerID == ownerID {
		return cls, nil
	}
	if !cls.HasParticipant(newOwnerID) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "New owner must be a classroom participant!")
	}

	res := db.Model(&model.ClassroomModel{}).
		Where("classroom_id = ? AND classroom_terminated = FALSE AND classroom_owner_id = ?", classroomID, ownerID).
		Update("classroom_owner_id", newOwnerID)
	if res.Error != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to transfer ownership")
	}
	if res.RowsAffected == 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "Ownership changed concurrently!")
	}

	notify(s.Notifier, constants.NotiClassroomOwnerUpdated, ownerID, newOwnerID, cls.ClassroomID,
		fmt.Sprintf("You are now the owner of classroom %q.", cls.ClassroomName))
	return s.refreshed(db, classroomID)
}
