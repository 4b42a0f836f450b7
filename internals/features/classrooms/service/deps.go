// file: internals/features/classrooms/service/deps.go
package service

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// Notifier is the outbound notification boundary. Emission is fire-and-forget
// from the classroom core's point of view.
type Notifier interface {
	Emit(code string, originUser, targetUser uuid.UUID, classroomID uuid.UUID, content string) error
}

// CredentialStore answers whether a user holds a proof of level for a subject
// (required to take the TUTOR role).
type CredentialStore interface {
	HasCredential(ctx context.Context, userID, subjectID uuid.UUID) (bool, error)
}

// notify wraps Emit: a failed emission is logged, never propagated, and never
// rolls back the membership/state change that triggered it.
func notify(n Notifier, code string, origin, target, classroomID uuid.UUID, content string) {
	if n == nil {
		return
	}
	if err := n.Emit(code, origin, target, classroomID, content); err != nil {
		log.Printf("[NOTIFY] emit failed code=%s target=%s classroom=%s err=%v", code, target, classroomID, err)
	}
}
