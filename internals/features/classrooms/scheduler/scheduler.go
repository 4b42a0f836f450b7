// file: internals/features/classrooms/scheduler/scheduler.go
package scheduler

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TransitionKind identifies which lifecycle edge a trigger fires.
type TransitionKind string

const (
	TransitionStart TransitionKind = "START"
	TransitionEnd   TransitionKind = "END"
)

// TransitionFunc is invoked when a trigger fires. It runs on the timer
// goroutine, asynchronously relative to whoever scheduled it.
type TransitionFunc func(classroomID uuid.UUID, kind TransitionKind)

type taskKey struct {
	classroomID uuid.UUID
	kind        TransitionKind
}

// TransitionScheduler owns the one-shot lifecycle timers, keyed by
// (classroom, kind). It holds no business state beyond the timer handles;
// persisted classroom rows are the source of truth after a restart.
type TransitionScheduler struct {
	mu     sync.Mutex
	clock  Clock
	timers map[taskKey]Timer
	fire   TransitionFunc
}

func New(clock Clock) *TransitionScheduler {
	if clock == nil {
		clock = NewRealClock()
	}
	return &TransitionScheduler{
		clock:  clock,
		timers: make(map[taskKey]Timer),
	}
}

// Bind sets the transition callback. Called once during wiring, before any
// Schedule; it exists because the scheduler and the state machine reference
// each other.
func (s *TransitionScheduler) Bind(fire TransitionFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fire = fire
}

// Schedule registers a one-shot trigger for (classroomID, kind) at the
// given instant, superseding any pending trigger under the same key.
// A past-due instant fires immediately (still async).
func (s *TransitionScheduler) Schedule(classroomID uuid.UUID, kind TransitionKind, at time.Time) {
	key := taskKey{classroomID: classroomID, kind: kind}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[key]; ok {
		old.Stop()
		delete(s.timers, key)
	}

	d := at.Sub(s.clock.Now())
	if d < 0 {
		d = 0
	}

	// a fire already in flight when its timer was superseded must not
	// evict the replacement handle, so the callback only deletes its own
	var t Timer
	t = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		if cur, ok := s.timers[key]; ok && cur == t {
			delete(s.timers, key)
		}
		fire := s.fire
		s.mu.Unlock()

		if fire == nil {
			log.Printf("[SCHEDULER] trigger fired with no transition bound classroom=%s kind=%s", classroomID, kind)
			return
		}
		fire(classroomID, kind)
	})
	s.timers[key] = t
}

// Cancel disarms a pending trigger. Safe to call when the trigger already
// fired or was never registered.
func (s *TransitionScheduler) Cancel(classroomID uuid.UUID, kind TransitionKind) {
	key := taskKey{classroomID: classroomID, kind: kind}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[key]; ok {
		t.Stop()
		delete(s.timers, key)
	}
}

// CancelAll disarms every pending trigger of a classroom (used on End).
func (s *TransitionScheduler) CancelAll(classroomID uuid.UUID) {
	s.Cancel(classroomID, TransitionStart)
	s.Cancel(classroomID, TransitionEnd)
}

// Shutdown disarms every pending trigger. The persisted rows remain the
// source of truth; the next startup scan re-arms whatever is still due.
func (s *TransitionScheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
}

// Pending reports how many triggers are currently armed.
func (s *TransitionScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
