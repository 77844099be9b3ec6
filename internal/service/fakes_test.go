package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tutorlane/slotengine/internal/model"
	"github.com/tutorlane/slotengine/internal/schedule"
)

// In-memory stores mirroring the repository contracts, so the commit
// protocol and cancellation paths can be exercised without Postgres.

type fakeTemplateStore struct {
	mu        sync.Mutex
	weekly    []*model.WeeklySlot
	overrides []*model.DateOverride
	nextID    int64
}

func (f *fakeTemplateStore) CreateWeeklySlot(_ context.Context, slot *model.WeeklySlot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	slot.ID = f.nextID
	slot.CreatedAt = time.Now()
	f.weekly = append(f.weekly, slot)
	return nil
}

func (f *fakeTemplateStore) ListWeeklySlots(_ context.Context, tutorID int64, medium model.Medium) ([]*model.WeeklySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.WeeklySlot
	for _, s := range f.weekly {
		if s.TutorID == tutorID && s.Medium == medium {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeTemplateStore) DeleteWeeklySlot(_ context.Context, tutorID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.weekly {
		if s.ID == id && s.TutorID == tutorID {
			f.weekly = append(f.weekly[:i], f.weekly[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

func (f *fakeTemplateStore) UpsertOverride(_ context.Context, ov *model.DateOverride) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.overrides {
		if existing.TutorID == ov.TutorID && existing.Date.Equal(ov.Date) &&
			existing.StartMinute == ov.StartMinute && existing.Medium == ov.Medium {
			existing.IsAvailable = ov.IsAvailable
			ov.ID = existing.ID
			return nil
		}
	}
	f.nextID++
	ov.ID = f.nextID
	ov.CreatedAt = time.Now()
	f.overrides = append(f.overrides, ov)
	return nil
}

func (f *fakeTemplateStore) ListOverrides(_ context.Context, tutorID int64, medium model.Medium, from, to time.Time) ([]*model.DateOverride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.DateOverride
	for _, ov := range f.overrides {
		if ov.TutorID == tutorID && ov.Medium == medium && !ov.Date.Before(from) && !ov.Date.After(to) {
			out = append(out, ov)
		}
	}
	return out, nil
}

func (f *fakeTemplateStore) DeleteOverride(_ context.Context, tutorID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, ov := range f.overrides {
		if ov.ID == id && ov.TutorID == tutorID {
			f.overrides = append(f.overrides[:i], f.overrides[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

type fakeProfileStore struct {
	profiles map[int64]*model.TutorProfile
}

func (f *fakeProfileStore) Get(_ context.Context, tutorID int64) (*model.TutorProfile, error) {
	return f.profiles[tutorID], nil
}

func (f *fakeProfileStore) Upsert(_ context.Context, profile *model.TutorProfile) error {
	if f.profiles == nil {
		f.profiles = make(map[int64]*model.TutorProfile)
	}
	f.profiles[profile.TutorID] = profile
	return nil
}

type fakeBookingStore struct {
	mu       sync.Mutex
	bookings []*model.Booking
	nextID   int64
	now      func() time.Time
}

func (f *fakeBookingStore) clock() time.Time {
	if f.now != nil {
		return f.now()
	}
	return time.Now()
}

// seed inserts a booking directly, bypassing the commit protocol.
func (f *fakeBookingStore) seed(b *model.Booking) *model.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	b.ID = f.nextID
	if b.Reference == uuid.Nil {
		b.Reference = uuid.New()
	}
	f.bookings = append(f.bookings, b)
	return b
}

func (f *fakeBookingStore) CreateExclusive(_ context.Context, booking *model.Booking, check func(existing []*model.Booking) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	day := schedule.DateOf(booking.ScheduledAt)
	existing := f.activeLocked(booking.TutorID, booking.Medium, day, day.AddDate(0, 0, 1))
	if err := check(existing); err != nil {
		return err
	}

	f.nextID++
	booking.ID = f.nextID
	booking.CreatedAt = f.clock()
	booking.UpdatedAt = booking.CreatedAt
	f.bookings = append(f.bookings, booking)
	return nil
}

func (f *fakeBookingStore) ListActive(_ context.Context, tutorID int64, medium model.Medium, from, to time.Time) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activeLocked(tutorID, medium, from, to), nil
}

func (f *fakeBookingStore) activeLocked(tutorID int64, medium model.Medium, from, to time.Time) []*model.Booking {
	var out []*model.Booking
	for _, b := range f.bookings {
		if b.TutorID != tutorID || b.Medium != medium || !b.Occupies() {
			continue
		}
		if b.ScheduledAt.Before(to) && b.EndTime().After(from) {
			out = append(out, b)
		}
	}
	return out
}

func (f *fakeBookingStore) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingStore) GetByReference(_ context.Context, reference uuid.UUID) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.Reference == reference {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingStore) ListByStudent(_ context.Context, studentID int64) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Booking
	for _, b := range f.bookings {
		if b.StudentID == studentID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) ListByTutor(_ context.Context, tutorID int64) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Booking
	for _, b := range f.bookings {
		if b.TutorID == tutorID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) Confirm(_ context.Context, reference uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.Reference == reference && b.Status == model.BookingStatusPending {
			b.Status = model.BookingStatusConfirmed
			b.UpdatedAt = f.clock()
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingStore) CancelActive(_ context.Context, id int64, refundPercent int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id && (b.Status == model.BookingStatusPending || b.Status == model.BookingStatusConfirmed) {
			b.Status = model.BookingStatusCancelled
			b.RefundPercent = &refundPercent
			b.UpdatedAt = f.clock()
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingStore) ExpirePending(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	full := 100
	for _, b := range f.bookings {
		if b.Status == model.BookingStatusPending && b.CreatedAt.Before(cutoff) {
			b.Status = model.BookingStatusCancelled
			b.RefundPercent = &full
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingStore) CompleteElapsed(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, b := range f.bookings {
		if b.Status == model.BookingStatusConfirmed && !b.EndTime().After(now) {
			b.Status = model.BookingStatusCompleted
			count++
		}
	}
	return count, nil
}
