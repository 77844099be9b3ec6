package model

import "time"

// DateOverride adjusts the weekly template for one concrete date.
// IsAvailable=false removes a slot the template would produce,
// IsAvailable=true adds a slot regardless of template membership.
// For the same (date, start_minute, medium) the override always wins.
type DateOverride struct {
	ID          int64     `json:"id"`
	TutorID     int64     `json:"tutor_id"`
	Date        time.Time `json:"date"` // UTC midnight
	StartMinute int       `json:"start_minute"`
	Medium      Medium    `json:"medium"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}
