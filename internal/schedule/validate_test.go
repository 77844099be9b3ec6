package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/tutorlane/slotengine/internal/model"
)

func TestValidateStart(t *testing.T) {
	aligned := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	if err := ValidateStart(aligned); err != nil {
		t.Errorf("10:30 should be valid: %v", err)
	}

	for _, bad := range []time.Time{
		time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 10, 30, 1, 0, time.UTC),
	} {
		err := ValidateStart(bad)
		var validationErr *model.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("%s: expected ValidationError, got %v", bad, err)
		}
	}
}

func TestValidateDuration(t *testing.T) {
	cases := []struct {
		minutes int
		ok      bool
	}{
		{30, true},
		{60, true},
		{90, true},
		{0, false},
		{-30, false},
		{45, false},
	}

	for _, tc := range cases {
		err := ValidateDuration(tc.minutes)
		if tc.ok && err != nil {
			t.Errorf("%d minutes: unexpected error %v", tc.minutes, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%d minutes: expected error", tc.minutes)
		}
	}
}

func TestValidateMedium(t *testing.T) {
	for _, m := range []model.Medium{model.MediumVideo, model.MediumInPerson, model.MediumGroup} {
		if err := ValidateMedium(m); err != nil {
			t.Errorf("%s: unexpected error %v", m, err)
		}
	}
	if err := ValidateMedium("carrier_pigeon"); err == nil {
		t.Error("expected error for unknown medium")
	}
}

func TestValidateStartMinute(t *testing.T) {
	for _, good := range []int{0, 30, 600, 1410} {
		if err := ValidateStartMinute(good); err != nil {
			t.Errorf("%d: unexpected error %v", good, err)
		}
	}
	for _, bad := range []int{-30, 15, 1440, 625} {
		if err := ValidateStartMinute(bad); err == nil {
			t.Errorf("%d: expected error", bad)
		}
	}
}

func TestValidateWeekday(t *testing.T) {
	if err := ValidateWeekday(0); err != nil {
		t.Errorf("Sunday: unexpected error %v", err)
	}
	if err := ValidateWeekday(6); err != nil {
		t.Errorf("Saturday: unexpected error %v", err)
	}
	if err := ValidateWeekday(7); err == nil {
		t.Error("expected error for weekday 7")
	}
	if err := ValidateWeekday(-1); err == nil {
		t.Error("expected error for weekday -1")
	}
}
