package models_test

import (
	"testing"

	"github.com/shashiranjanraj/canteen/app/models"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "completed", "cancelled"} {
		if _, ok := models.ParseStatus(s); !ok {
			t.Errorf("expected %q to parse", s)
		}
	}
	for _, s := range []string{"", "Pending", "shipped", "done"} {
		if _, ok := models.ParseStatus(s); ok {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestStatusMachine(t *testing.T) {
	cases := []struct {
		from, to models.Status
		want     bool
	}{
		{models.StatusPending, models.StatusCompleted, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPending, models.StatusPending, false},
		{models.StatusCompleted, models.StatusCancelled, false},
		{models.StatusCompleted, models.StatusPending, false},
		{models.StatusCancelled, models.StatusCompleted, false},
		{models.StatusCancelled, models.StatusPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}

	if models.StatusPending.Terminal() {
		t.Error("pending must not be terminal")
	}
	if !models.StatusCompleted.Terminal() || !models.StatusCancelled.Terminal() {
		t.Error("completed and cancelled must be terminal")
	}
}
