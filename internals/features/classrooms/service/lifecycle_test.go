// file: internals/features/classrooms/service/lifecycle_test.go
package service

import (
	"testing"
	"time"

	"github.com/tubuzu/learn-together-backend/internals/constants"
)

var base = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestExpectedState(t *testing.T) {
	start := base.Add(1 * time.Hour)
	end := base.Add(3 * time.Hour)

	cases := []struct {
		name string
		now  time.Time
		want string
	}{
		{"before start", base, constants.ClassroomStateWaiting},
		{"exactly at start", start, constants.ClassroomStateLearning},
		{"between start and end", base.Add(2 * time.Hour), constants.ClassroomStateLearning},
		{"exactly at end", end, constants.ClassroomStateFinished},
		{"after end", base.Add(5 * time.Hour), constants.ClassroomStateFinished},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := expectedState(tc.now, start, end); got != tc.want {
				t.Errorf("expectedState(%v) = %s, want %s", tc.now, got, tc.want)
			}
		})
	}
}

func TestTimesOverlap(t *testing.T) {
	a1, a2 := base, base.Add(2*time.Hour)

	cases := []struct {
		name   string
		bStart time.Time
		bEnd   time.Time
		want   bool
	}{
		{"identical intervals", a1, a2, true},
		{"b inside a", base.Add(30 * time.Minute), base.Add(time.Hour), true},
		{"b straddles a's end", base.Add(time.Hour), base.Add(3 * time.Hour), true},
		{"b straddles a's start", base.Add(-time.Hour), base.Add(time.Hour), true},
		{"b starts exactly at a's end", a2, base.Add(4 * time.Hour), false},
		{"b ends exactly at a's start", base.Add(-2 * time.Hour), a1, false},
		{"disjoint after", base.Add(5 * time.Hour), base.Add(6 * time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := timesOverlap(a1, a2, tc.bStart, tc.bEnd); got != tc.want {
				t.Errorf("timesOverlap = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPatchedState(t *testing.T) {
	cases := []struct {
		name         string
		startChanged bool
		want         string
	}{
		{"moving the start resets to WAITING", true, constants.ClassroomStateWaiting},
		{"moving only the end keeps a LEARNING room LEARNING", false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := patchedState(tc.startChanged); got != tc.want {
				t.Errorf("patchedState(%v) = %q, want %q", tc.startChanged, got, tc.want)
			}
		})
	}
}
