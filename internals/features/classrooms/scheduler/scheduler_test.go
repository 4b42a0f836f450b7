// file: internals/features/classrooms/scheduler/scheduler_test.go
package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

/* =======================================================
   Fake clock: timers fire only on Advance, never inline.
======================================================= */

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*fakeTimer
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.pending = append(c.pending, t)
	return t
}

// Advance moves the clock and fires every due, unstopped timer.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	var rest []*fakeTimer
	for _, t := range c.pending {
		if !t.stopped && !t.at.After(c.now) {
			due = append(due, t)
		} else {
			rest = append(rest, t)
		}
	}
	c.pending = rest
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

/* =======================================================
   Firing recorder
======================================================= */

type recorder struct {
	mu    sync.Mutex
	fired []struct {
		id   uuid.UUID
		kind TransitionKind
	}
}

func (r *recorder) fire(id uuid.UUID, kind TransitionKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired = append(r.fired, struct {
		id   uuid.UUID
		kind TransitionKind
	}{id, kind})
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fired)
}

/* =======================================================
   Tests
======================================================= */

func TestScheduleFiresAtInstant(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := newFakeClock(base)
	rec := &recorder{}

	s := New(clock)
	s.Bind(rec.fire)

	id := uuid.New()
	s.Schedule(id, TransitionStart, base.Add(1*time.Hour))
	s.Schedule(id, TransitionEnd, base.Add(2*time.Hour))

	if got := s.Pending(); got != 2 {
		t.Fatalf("pending = %d, want 2", got)
	}

	clock.Advance(30 * time.Minute)
	if rec.count() != 0 {
		t.Fatalf("fired too early: %d", rec.count())
	}

	clock.Advance(30 * time.Minute)
	if rec.count() != 1 {
		t.Fatalf("START not fired at start time, fired=%d", rec.count())
	}
	if rec.fired[0].kind != TransitionStart {
		t.Fatalf("first fire kind = %s, want START", rec.fired[0].kind)
	}

	clock.Advance(1 * time.Hour)
	if rec.count() != 2 {
		t.Fatalf("END not fired at end time, fired=%d", rec.count())
	}
	if got := s.Pending(); got != 0 {
		t.Fatalf("pending after both fires = %d, want 0", got)
	}
}

func TestCancelDisarmsPendingTrigger(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := newFakeClock(base)
	rec := &recorder{}

	s := New(clock)
	s.Bind(rec.fire)

	id := uuid.New()
	s.Schedule(id, TransitionEnd, base.Add(time.Hour))
	s.Cancel(id, TransitionEnd)

	clock.Advance(2 * time.Hour)
	if rec.count() != 0 {
		t.Fatalf("cancelled trigger still fired %d times", rec.count())
	}

	// cancelling again, or cancelling something never scheduled, is a no-op
	s.Cancel(id, TransitionEnd)
	s.Cancel(uuid.New(), TransitionStart)
}

func TestRescheduleSupersedesOldTrigger(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := newFakeClock(base)
	rec := &recorder{}

	s := New(clock)
	s.Bind(rec.fire)

	id := uuid.New()
	s.Schedule(id, TransitionStart, base.Add(1*time.Hour))
	// owner moves the start time: old timer must not fire
	s.Schedule(id, TransitionStart, base.Add(3*time.Hour))

	clock.Advance(1 * time.Hour)
	if rec.count() != 0 {
		t.Fatalf("superseded trigger fired")
	}

	clock.Advance(2 * time.Hour)
	if rec.count() != 1 {
		t.Fatalf("replacement trigger fired %d times, want 1", rec.count())
	}
}

func TestStaleFireLeavesReplacementArmed(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := newFakeClock(base)
	rec := &recorder{}

	s := New(clock)
	s.Bind(rec.fire)

	id := uuid.New()
	s.Schedule(id, TransitionEnd, base.Add(1*time.Hour))
	old := clock.pending[0]
	s.Schedule(id, TransitionEnd, base.Add(2*time.Hour))

	// the old timer had already fired when the reschedule stopped it:
	// its callback runs anyway, and must not evict the replacement
	old.f()
	if got := s.Pending(); got != 1 {
		t.Fatalf("pending after stale fire = %d, want 1", got)
	}

	// the replacement is still cancellable
	s.Cancel(id, TransitionEnd)
	clock.Advance(3 * time.Hour)
	if rec.count() != 1 {
		t.Fatalf("fired = %d, want only the stale fire", rec.count())
	}
}

func TestPastDueScheduleFires(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := newFakeClock(base)
	rec := &recorder{}

	s := New(clock)
	s.Bind(rec.fire)

	// restart recovery may register an instant that already passed
	s.Schedule(uuid.New(), TransitionEnd, base.Add(-time.Minute))

	clock.Advance(0)
	if rec.count() != 1 {
		t.Fatalf("past-due trigger did not fire, fired=%d", rec.count())
	}
}

func TestShutdownDisarmsEverything(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := newFakeClock(base)
	rec := &recorder{}

	s := New(clock)
	s.Bind(rec.fire)

	s.Schedule(uuid.New(), TransitionStart, base.Add(time.Hour))
	s.Schedule(uuid.New(), TransitionEnd, base.Add(2*time.Hour))

	s.Shutdown()

	if got := s.Pending(); got != 0 {
		t.Fatalf("pending after shutdown = %d, want 0", got)
	}
	clock.Advance(3 * time.Hour)
	if rec.count() != 0 {
		t.Fatalf("trigger fired after shutdown")
	}
}

func TestCancelAllDisarmsBothKinds(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := newFakeClock(base)
	rec := &recorder{}

	s := New(clock)
	s.Bind(rec.fire)

	id := uuid.New()
	other := uuid.New()
	s.Schedule(id, TransitionStart, base.Add(time.Hour))
	s.Schedule(id, TransitionEnd, base.Add(2*time.Hour))
	s.Schedule(other, TransitionEnd, base.Add(2*time.Hour))

	s.CancelAll(id)

	clock.Advance(3 * time.Hour)
	if rec.count() != 1 {
		t.Fatalf("fired = %d, want only the other classroom's trigger", rec.count())
	}
	if rec.fired[0].id != other {
		t.Fatalf("wrong classroom fired")
	}
}
