package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tutorlane/slotengine/internal/model"
)

// TemplateStore persists weekly template entries and date overrides.
type TemplateStore interface {
	CreateWeeklySlot(ctx context.Context, slot *model.WeeklySlot) error
	ListWeeklySlots(ctx context.Context, tutorID int64, medium model.Medium) ([]*model.WeeklySlot, error)
	DeleteWeeklySlot(ctx context.Context, tutorID, id int64) error
	UpsertOverride(ctx context.Context, ov *model.DateOverride) error
	ListOverrides(ctx context.Context, tutorID int64, medium model.Medium, from, to time.Time) ([]*model.DateOverride, error)
	DeleteOverride(ctx context.Context, tutorID, id int64) error
}

// ProfileStore reads and writes tutor pricing and policy fields.
type ProfileStore interface {
	Get(ctx context.Context, tutorID int64) (*model.TutorProfile, error)
	Upsert(ctx context.Context, profile *model.TutorProfile) error
}

// BookingStore persists bookings. CreateExclusive must run its availability
// check and the insert as one atomic unit scoped to the booking's
// (tutor, date, medium) partition.
type BookingStore interface {
	CreateExclusive(ctx context.Context, booking *model.Booking, check func(existing []*model.Booking) error) error
	ListActive(ctx context.Context, tutorID int64, medium model.Medium, from, to time.Time) ([]*model.Booking, error)
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	GetByReference(ctx context.Context, reference uuid.UUID) (*model.Booking, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error)
	ListByTutor(ctx context.Context, tutorID int64) ([]*model.Booking, error)
	Confirm(ctx context.Context, reference uuid.UUID) (bool, error)
	CancelActive(ctx context.Context, id int64, refundPercent int) (bool, error)
	ExpirePending(ctx context.Context, cutoff time.Time) (int64, error)
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)
}
