// file: internals/features/classrooms/service/search_service_test.go
package service

import (
	"reflect"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestParseStateFilter(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{"empty means no filter", "", nil, false},
		{"single state", "WAITING", []string{"WAITING"}, false},
		{"multiple states", "WAITING,LEARNING", []string{"WAITING", "LEARNING"}, false},
		{"lowercase and spaces normalize", " waiting , learning ", []string{"WAITING", "LEARNING"}, false},
		{"trailing comma tolerated", "FINISHED,", []string{"FINISHED"}, false},
		{"unknown state rejected", "WAITING,PAUSED", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseStateFilter(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				fe, ok := err.(*fiber.Error)
				if !ok || fe.Code != fiber.StatusBadRequest {
					t.Fatalf("expected 400, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("parseStateFilter(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}
