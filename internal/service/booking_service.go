package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tutorlane/slotengine/internal/model"
	"github.com/tutorlane/slotengine/internal/schedule"
	"go.uber.org/zap"
)

// BookingRequest carries a student's slot selection.
type BookingRequest struct {
	TutorID         int64        `json:"tutor_id"`
	StudentID       int64        `json:"student_id"`
	Medium          model.Medium `json:"medium"`
	StartTime       time.Time    `json:"start_time"`
	DurationMinutes int          `json:"duration_minutes"`
}

// CancellationResult reports the outcome of a cancellation.
type CancellationResult struct {
	Booking       *model.Booking `json:"booking"`
	RefundPercent int            `json:"refund_percent"`
	RefundCents   int64          `json:"refund_cents"`
}

// BookingService implements the commit protocol and the cancellation path.
// Commits are serialized per (tutor, date, medium): an in-process keyed
// mutex plus the store's own advisory lock guarantee that availability is
// re-checked against the latest booking state immediately before insert.
type BookingService struct {
	bookings  BookingStore
	templates TemplateStore
	profiles  ProfileStore
	locks     *keyedMutex
	logger    *zap.Logger
	leadTime  time.Duration
	now       func() time.Time
}

func NewBookingService(
	bookings BookingStore,
	templates TemplateStore,
	profiles ProfileStore,
	logger *zap.Logger,
	leadTime time.Duration,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		templates: templates,
		profiles:  profiles,
		locks:     newKeyedMutex(),
		logger:    logger,
		leadTime:  leadTime,
		now:       time.Now,
	}
}

// Book validates the request, re-checks availability under the partition
// lock and inserts a single pending booking covering the whole span. No
// partial bookings are ever committed: either every 30-minute unit is free
// (or has group capacity) or the caller gets model.ErrSlotTaken.
func (s *BookingService) Book(ctx context.Context, req BookingRequest) (*model.Booking, error) {
	if err := schedule.ValidateMedium(req.Medium); err != nil {
		return nil, err
	}
	if err := schedule.ValidateStart(req.StartTime); err != nil {
		return nil, err
	}
	if err := schedule.ValidateDuration(req.DurationMinutes); err != nil {
		return nil, err
	}

	now := s.now()
	if req.StartTime.Before(now.Add(s.leadTime)) {
		return nil, &model.ValidationError{Field: "start_time", Reason: "too soon to book"}
	}

	profile, err := s.profiles.Get(ctx, req.TutorID)
	if err != nil {
		return nil, fmt.Errorf("get tutor profile: %w", err)
	}

	rate := profile.HourlyRateCents(req.Medium)
	if rate <= 0 {
		return nil, fmt.Errorf("tutor %d has no rate configured for medium %s", req.TutorID, req.Medium)
	}

	maxGroup := 1
	if profile != nil && profile.MaxGroupSize > 0 {
		maxGroup = profile.MaxGroupSize
	}

	day := schedule.DateOf(req.StartTime)

	weekly, err := s.templates.ListWeeklySlots(ctx, req.TutorID, req.Medium)
	if err != nil {
		return nil, fmt.Errorf("list weekly slots: %w", err)
	}
	overrides, err := s.templates.ListOverrides(ctx, req.TutorID, req.Medium, day, day)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}

	candidates := schedule.Generate(weekly, overrides, req.Medium, day, day)

	booking := &model.Booking{
		Reference:       uuid.New(),
		TutorID:         req.TutorID,
		StudentID:       req.StudentID,
		Medium:          req.Medium,
		ScheduledAt:     req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Status:          model.BookingStatusPending,
		PriceCents:      rate * int64(req.DurationMinutes) / 60,
	}

	unlock := s.locks.Lock(commitKey(req.TutorID, day, req.Medium))
	defer unlock()

	err = s.bookings.CreateExclusive(ctx, booking, func(existing []*model.Booking) error {
		resolved := schedule.Resolve(candidates, existing, maxGroup)
		if !schedule.SpanAvailable(resolved, req.StartTime, req.DurationMinutes) {
			return model.ErrSlotTaken
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking committed",
		zap.Int64("booking_id", booking.ID),
		zap.String("reference", booking.Reference.String()),
		zap.Int64("tutor_id", booking.TutorID),
		zap.Int64("student_id", booking.StudentID),
		zap.String("medium", string(booking.Medium)),
		zap.Time("scheduled_at", booking.ScheduledAt),
		zap.Int("duration_minutes", booking.DurationMinutes),
		zap.Int64("price_cents", booking.PriceCents),
	)

	return booking, nil
}

// Confirm flips a pending booking to confirmed. Called by the payment
// collaborator once the charge succeeds.
func (s *BookingService) Confirm(ctx context.Context, reference uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, model.ErrNotFound
	}

	ok, err := s.bookings.Confirm(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("confirm booking: %w", err)
	}
	if !ok {
		return nil, &model.InvalidStateError{Status: booking.Status, Op: "confirm"}
	}

	booking.Status = model.BookingStatusConfirmed

	s.logger.Info("Booking confirmed",
		zap.Int64("booking_id", booking.ID),
		zap.String("reference", reference.String()),
	)

	return booking, nil
}

// Cancel transitions an active booking to cancelled and computes the refund
// from the tutor's notice policy. Completed and already-cancelled bookings
// are rejected, as is a session whose end time has passed even if the
// status row has not flipped yet.
func (s *BookingService) Cancel(ctx context.Context, bookingID int64) (*CancellationResult, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, model.ErrNotFound
	}

	if booking.Status != model.BookingStatusPending && booking.Status != model.BookingStatusConfirmed {
		return nil, &model.InvalidStateError{Status: booking.Status, Op: "cancel"}
	}

	now := s.now()
	if !booking.EndTime().After(now) {
		return nil, &model.InvalidStateError{Status: model.BookingStatusCompleted, Op: "cancel"}
	}

	// Both 0% and 100% are financially consequential guesses; a booking
	// without a price fails the cancellation outright.
	if booking.PriceCents <= 0 {
		return nil, fmt.Errorf("booking %d has no price, refusing to compute refund", bookingID)
	}

	profile, err := s.profiles.Get(ctx, booking.TutorID)
	if err != nil {
		return nil, fmt.Errorf("get tutor profile: %w", err)
	}

	percent := schedule.RefundPercent(booking.ScheduledAt, now, profile.Policy())

	ok, err := s.bookings.CancelActive(ctx, bookingID, percent)
	if err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	if !ok {
		// Lost the race against completion marking.
		return nil, &model.InvalidStateError{Status: model.BookingStatusCompleted, Op: "cancel"}
	}

	booking.Status = model.BookingStatusCancelled
	booking.RefundPercent = &percent

	result := &CancellationResult{
		Booking:       booking,
		RefundPercent: percent,
		RefundCents:   schedule.RefundAmountCents(booking.PriceCents, percent),
	}

	s.logger.Info("Booking cancelled",
		zap.Int64("booking_id", bookingID),
		zap.Int("refund_percent", percent),
		zap.Int64("refund_cents", result.RefundCents),
	)

	return result, nil
}

// ExpirePending reclaims slots locked behind abandoned checkouts: pending
// bookings older than ttl are cancelled.
func (s *BookingService) ExpirePending(ctx context.Context, ttl time.Duration) (int64, error) {
	count, err := s.bookings.ExpirePending(ctx, s.now().Add(-ttl))
	if err != nil {
		return 0, fmt.Errorf("expire pending: %w", err)
	}

	if count > 0 {
		s.logger.Info("Expired pending bookings", zap.Int64("count", count))
	}

	return count, nil
}

// CompleteElapsed marks confirmed sessions whose end has passed as completed.
func (s *BookingService) CompleteElapsed(ctx context.Context) (int64, error) {
	count, err := s.bookings.CompleteElapsed(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("complete elapsed: %w", err)
	}

	if count > 0 {
		s.logger.Info("Completed elapsed bookings", zap.Int64("count", count))
	}

	return count, nil
}

// GetByReference returns a booking by its external reference.
func (s *BookingService) GetByReference(ctx context.Context, reference uuid.UUID) (*model.Booking, error) {
	return s.bookings.GetByReference(ctx, reference)
}

// ListByStudent returns a student's bookings, newest first.
func (s *BookingService) ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error) {
	return s.bookings.ListByStudent(ctx, studentID)
}

// ListByTutor returns a tutor's bookings, newest first.
func (s *BookingService) ListByTutor(ctx context.Context, tutorID int64) ([]*model.Booking, error) {
	return s.bookings.ListByTutor(ctx, tutorID)
}

func commitKey(tutorID int64, day time.Time, medium model.Medium) string {
	return fmt.Sprintf("%d|%s|%s", tutorID, day.Format("2006-01-02"), medium)
}
