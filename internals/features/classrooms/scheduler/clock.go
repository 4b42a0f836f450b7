// file: internals/features/classrooms/scheduler/clock.go
package scheduler

import "time"

// Clock abstracts wall-clock access so lifecycle timing is testable.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the cancellable handle of a pending one-shot trigger.
type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// NewRealClock returns the production clock backed by package time.
func NewRealClock() Clock { return realClock{} }
