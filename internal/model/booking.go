package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // created, awaiting payment
	BookingStatusConfirmed BookingStatus = "confirmed" // payment succeeded
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking is a committed session. A non-cancelled booking occupies every
// 30-minute unit in [ScheduledAt, ScheduledAt+DurationMinutes). Rows are
// never deleted; cancellations keep the row as an audit trail for refunds.
type Booking struct {
	ID              int64         `json:"id"`
	Reference       uuid.UUID     `json:"reference"` // handed to the payment collaborator
	TutorID         int64         `json:"tutor_id"`
	StudentID       int64         `json:"student_id"`
	Medium          Medium        `json:"medium"`
	ScheduledAt     time.Time     `json:"scheduled_at"`
	DurationMinutes int           `json:"duration_minutes"` // multiple of 30, >= 30
	Status          BookingStatus `json:"status"`
	PriceCents      int64         `json:"price_cents"`
	RefundPercent   *int          `json:"refund_percent,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// EndTime returns the instant the session ends.
func (b *Booking) EndTime() time.Time {
	return b.ScheduledAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// Occupies reports whether the booking blocks slot capacity.
func (b *Booking) Occupies() bool {
	return b.Status != BookingStatusCancelled
}
