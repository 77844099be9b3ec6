package model

import "time"

// SlotUnitMinutes is the granularity of the booking grid. Every generated
// slot, start time and booking duration is aligned to this unit.
const SlotUnitMinutes = 30

// WeeklySlot is one entry of a tutor's recurring weekly template:
// "every <weekday> at <start minute> I teach over <medium>".
// Duration is not stored; sessions are variable-length and assembled
// from contiguous units at booking time.
type WeeklySlot struct {
	ID          int64     `json:"id"`
	TutorID     int64     `json:"tutor_id"`
	Weekday     int       `json:"weekday"`      // 0 = Sunday, 6 = Saturday
	StartMinute int       `json:"start_minute"` // minutes from midnight, 30-minute aligned
	Medium      Medium    `json:"medium"`
	CreatedAt   time.Time `json:"created_at"`
}
