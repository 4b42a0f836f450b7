// file: internals/constants/notification.go
package constants

// Notification codes emitted on classroom lifecycle / membership changes.
const (
	NotiClassroomStarted             = "CLASSROOM__STARTED"
	NotiClassroomFinished            = "CLASSROOM__FINISHED"
	NotiClassroomTerminated          = "CLASSROOM__TERMINATED"
	NotiClassroomNewMember           = "CLASSROOM__NEW_MEMBER"
	NotiClassroomMemberKicked        = "CLASSROOM__MEMBER_KICKED"
	NotiClassroomTutorUpdated        = "CLASSROOM__TUTOR_UPDATED"
	NotiClassroomOwnerUpdated        = "CLASSROOM__OWNER_UPDATED"
	NotiClassroomJoinRequestAccepted = "CLASSROOM__JOIN_REQUEST_ACCEPTED"
	NotiClassroomJoinRequestRejected = "CLASSROOM__JOIN_REQUEST_REJECTED"
)
