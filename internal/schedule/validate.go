package schedule

import (
	"time"

	"github.com/tutorlane/slotengine/internal/model"
)

// ValidateStart checks that a requested start instant sits on the 30-minute
// slot grid.
func ValidateStart(start time.Time) error {
	if start.Second() != 0 || start.Nanosecond() != 0 || start.Minute()%model.SlotUnitMinutes != 0 {
		return &model.ValidationError{Field: "start_time", Reason: "must be aligned to the 30-minute grid"}
	}
	return nil
}

// ValidateDuration checks that a requested duration is a positive multiple
// of the slot unit.
func ValidateDuration(minutes int) error {
	if minutes < model.SlotUnitMinutes || minutes%model.SlotUnitMinutes != 0 {
		return &model.ValidationError{Field: "duration_minutes", Reason: "must be a positive multiple of 30"}
	}
	return nil
}

// ValidateMedium checks the delivery medium is known.
func ValidateMedium(m model.Medium) error {
	if !m.Valid() {
		return &model.ValidationError{Field: "medium", Reason: "unknown medium"}
	}
	return nil
}

// ValidateStartMinute checks a template or override start minute is inside
// the day and grid-aligned.
func ValidateStartMinute(minute int) error {
	if minute < 0 || minute >= 24*60 || minute%model.SlotUnitMinutes != 0 {
		return &model.ValidationError{Field: "start_minute", Reason: "must be a 30-minute boundary within the day"}
	}
	return nil
}

// ValidateWeekday checks a template weekday is 0..6.
func ValidateWeekday(weekday int) error {
	if weekday < 0 || weekday > 6 {
		return &model.ValidationError{Field: "weekday", Reason: "must be between 0 (Sunday) and 6 (Saturday)"}
	}
	return nil
}
