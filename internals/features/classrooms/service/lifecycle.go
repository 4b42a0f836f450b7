// file: internals/features/classrooms/service/lifecycle.go
package service

import (
	"time"

	"github.com/tubuzu/learn-together-backend/internals/constants"
)

// expectedState computes where the lifecycle should be for the given
// wall-clock position. Used by restart recovery and by end-time patches.
func expectedState(now, start, end time.Time) string {
	switch {
	case now.Before(start):
		return constants.ClassroomStateWaiting
	case now.Before(end):
		return constants.ClassroomStateLearning
	default:
		return constants.ClassroomStateFinished
	}
}

// timesOverlap reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect.
func timesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// patchedState decides the state written by an owner Update that touched
// the schedule. Empty string means "leave the state column alone".
// Moving the start resets the room to WAITING (start is validated to be in
// the future, so the START trigger brings it back); moving only the end
// never regresses the state, so a LEARNING room stays LEARNING. FINISHED
// rooms are rejected before Update gets this far.
func patchedState(startChanged bool) string {
	if startChanged {
		return constants.ClassroomStateWaiting
	}
	return ""
}
