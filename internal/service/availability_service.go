package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tutorlane/slotengine/internal/model"
	"github.com/tutorlane/slotengine/internal/schedule"
	"go.uber.org/zap"
)

// maxRangeDays caps a single availability query window.
const maxRangeDays = 90

// AvailabilityService produces the bookable slot view: template + overrides
// expanded by the generator, intersected with live bookings by the resolver,
// priced from the tutor profile and clipped to the minimum lead time.
type AvailabilityService struct {
	templates TemplateStore
	profiles  ProfileStore
	bookings  BookingStore
	logger    *zap.Logger
	leadTime  time.Duration
	now       func() time.Time
}

func NewAvailabilityService(
	templates TemplateStore,
	profiles ProfileStore,
	bookings BookingStore,
	logger *zap.Logger,
	leadTime time.Duration,
) *AvailabilityService {
	return &AvailabilityService{
		templates: templates,
		profiles:  profiles,
		bookings:  bookings,
		logger:    logger,
		leadTime:  leadTime,
		now:       time.Now,
	}
}

// GetSlots returns the resolved slot view for a tutor, medium and date range.
// Slots starting before now+leadTime are clipped out: they are in the past or
// too soon to book.
func (s *AvailabilityService) GetSlots(ctx context.Context, tutorID int64, medium model.Medium, from, to time.Time) ([]*model.GeneratedSlot, error) {
	if err := schedule.ValidateMedium(medium); err != nil {
		return nil, err
	}

	from = schedule.DateOf(from)
	to = schedule.DateOf(to)
	if to.Before(from) {
		return nil, &model.ValidationError{Field: "date_range", Reason: "end date before start date"}
	}
	if to.Sub(from) > maxRangeDays*24*time.Hour {
		return nil, &model.ValidationError{Field: "date_range", Reason: fmt.Sprintf("window larger than %d days", maxRangeDays)}
	}

	weekly, err := s.templates.ListWeeklySlots(ctx, tutorID, medium)
	if err != nil {
		return nil, fmt.Errorf("list weekly slots: %w", err)
	}

	overrides, err := s.templates.ListOverrides(ctx, tutorID, medium, from, to)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}

	candidates := schedule.Generate(weekly, overrides, medium, from, to)
	if len(candidates) == 0 {
		return nil, nil
	}

	bookings, err := s.bookings.ListActive(ctx, tutorID, medium, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}

	profile, err := s.profiles.Get(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get tutor profile: %w", err)
	}

	maxGroup := 1
	if profile != nil && profile.MaxGroupSize > 0 {
		maxGroup = profile.MaxGroupSize
	}

	resolved := schedule.Resolve(candidates, bookings, maxGroup)

	// Per-unit price is half the hourly rate. An unconfigured rate surfaces
	// as zero on reads; financial operations reject it at booking time.
	unitPrice := profile.HourlyRateCents(medium) / 2

	cutoff := s.now().Add(s.leadTime)
	clipped := resolved[:0]
	for _, slot := range resolved {
		if slot.Start.Before(cutoff) {
			continue
		}
		slot.PriceCents = unitPrice
		clipped = append(clipped, slot)
	}

	return clipped, nil
}

// MaxDuration returns the longest bookable duration in minutes starting at
// start, recomputed from the live slot view.
func (s *AvailabilityService) MaxDuration(ctx context.Context, tutorID int64, medium model.Medium, start time.Time) (int, error) {
	if err := schedule.ValidateStart(start); err != nil {
		return 0, err
	}

	day := schedule.DateOf(start)
	slots, err := s.GetSlots(ctx, tutorID, medium, day, day)
	if err != nil {
		return 0, err
	}

	return schedule.MaxDuration(slots, start), nil
}

// AddWeeklySlot adds one recurring template entry for the tutor.
func (s *AvailabilityService) AddWeeklySlot(ctx context.Context, tutorID int64, weekday, startMinute int, medium model.Medium) (*model.WeeklySlot, error) {
	if err := schedule.ValidateWeekday(weekday); err != nil {
		return nil, err
	}
	if err := schedule.ValidateStartMinute(startMinute); err != nil {
		return nil, err
	}
	if err := schedule.ValidateMedium(medium); err != nil {
		return nil, err
	}

	slot := &model.WeeklySlot{
		TutorID:     tutorID,
		Weekday:     weekday,
		StartMinute: startMinute,
		Medium:      medium,
	}

	if err := s.templates.CreateWeeklySlot(ctx, slot); err != nil {
		return nil, fmt.Errorf("create weekly slot: %w", err)
	}

	s.logger.Info("Weekly slot added",
		zap.Int64("tutor_id", tutorID),
		zap.Int("weekday", weekday),
		zap.Int("start_minute", startMinute),
		zap.String("medium", string(medium)),
	)

	return slot, nil
}

// ListWeeklySlots returns the tutor's template for a medium.
func (s *AvailabilityService) ListWeeklySlots(ctx context.Context, tutorID int64, medium model.Medium) ([]*model.WeeklySlot, error) {
	if err := schedule.ValidateMedium(medium); err != nil {
		return nil, err
	}
	return s.templates.ListWeeklySlots(ctx, tutorID, medium)
}

// RemoveWeeklySlot deletes one template entry. Existing bookings are
// authoritative and stay untouched by template edits.
func (s *AvailabilityService) RemoveWeeklySlot(ctx context.Context, tutorID, id int64) error {
	if err := s.templates.DeleteWeeklySlot(ctx, tutorID, id); err != nil {
		return err
	}

	s.logger.Info("Weekly slot removed",
		zap.Int64("tutor_id", tutorID),
		zap.Int64("slot_id", id),
	)

	return nil
}

// SetOverride adds or replaces a date override for the tutor.
func (s *AvailabilityService) SetOverride(ctx context.Context, tutorID int64, date time.Time, startMinute int, medium model.Medium, isAvailable bool) (*model.DateOverride, error) {
	if err := schedule.ValidateStartMinute(startMinute); err != nil {
		return nil, err
	}
	if err := schedule.ValidateMedium(medium); err != nil {
		return nil, err
	}

	ov := &model.DateOverride{
		TutorID:     tutorID,
		Date:        schedule.DateOf(date),
		StartMinute: startMinute,
		Medium:      medium,
		IsAvailable: isAvailable,
	}

	if err := s.templates.UpsertOverride(ctx, ov); err != nil {
		return nil, fmt.Errorf("upsert override: %w", err)
	}

	s.logger.Info("Date override set",
		zap.Int64("tutor_id", tutorID),
		zap.Time("date", ov.Date),
		zap.Int("start_minute", startMinute),
		zap.Bool("is_available", isAvailable),
	)

	return ov, nil
}

// RemoveOverride deletes a date override.
func (s *AvailabilityService) RemoveOverride(ctx context.Context, tutorID, id int64) error {
	return s.templates.DeleteOverride(ctx, tutorID, id)
}

// GetProfile returns the tutor's pricing and policy fields, or nil when the
// profile collaborator has not synced them yet.
func (s *AvailabilityService) GetProfile(ctx context.Context, tutorID int64) (*model.TutorProfile, error) {
	return s.profiles.Get(ctx, tutorID)
}

// UpsertProfile writes the pricing and policy fields synced from the profile
// collaborator.
func (s *AvailabilityService) UpsertProfile(ctx context.Context, profile *model.TutorProfile) error {
	if profile.BaseHourlyRateCents < 0 || profile.GroupHourlyRateCents < 0 {
		return &model.ValidationError{Field: "hourly_rate_cents", Reason: "must not be negative"}
	}
	if profile.MaxGroupSize < 1 {
		return &model.ValidationError{Field: "max_group_size", Reason: "must be at least 1"}
	}
	if profile.NoticeHours != nil && *profile.NoticeHours < 0 {
		return &model.ValidationError{Field: "cancellation_notice_hours", Reason: "must not be negative"}
	}
	if profile.LateRefundPercent != nil && (*profile.LateRefundPercent < 0 || *profile.LateRefundPercent > 100) {
		return &model.ValidationError{Field: "late_cancellation_refund_percent", Reason: "must be between 0 and 100"}
	}

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return fmt.Errorf("upsert tutor profile: %w", err)
	}

	s.logger.Info("Tutor profile updated",
		zap.Int64("tutor_id", profile.TutorID),
		zap.Int64("base_hourly_rate_cents", profile.BaseHourlyRateCents),
		zap.Int64("group_hourly_rate_cents", profile.GroupHourlyRateCents),
		zap.Int("max_group_size", profile.MaxGroupSize),
	)

	return nil
}
