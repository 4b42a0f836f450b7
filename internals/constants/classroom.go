// file: internals/constants/classroom.go
package constants

// =======================
// CLASSROOM LIFECYCLE
// =======================

const (
	ClassroomStateWaiting  = "WAITING"
	ClassroomStateLearning = "LEARNING"
	ClassroomStateFinished = "FINISHED"
)

// ValidClassroomStates is used by the search layer to validate state filters.
var ValidClassroomStates = map[string]bool{
	ClassroomStateWaiting:  true,
	ClassroomStateLearning: true,
	ClassroomStateFinished: true,
}

// =======================
// MEMBER ROLES
// =======================

const (
	ClassroomMemberRoleStudent = "STUDENT"
	ClassroomMemberRoleTutor   = "TUTOR"
)

// =======================
// JOIN REQUEST STATES
// =======================

const (
	RequestStateWaiting  = "WAITING"
	RequestStateAccepted = "ACCEPTED"
	RequestStateRejected = "REJECTED"
)

// =======================
// LIMITS
// =======================

const (
	// MaxClassroomJoinLimit: a user may belong to at most this many
	// non-terminated classrooms at the same time.
	MaxClassroomJoinLimit = 5

	ClassroomMinParticipants = 2
	ClassroomMaxParticipants = 30
)
