package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tutorlane/slotengine/internal/model"
	"github.com/tutorlane/slotengine/internal/repository/base"
)

// TemplateRepository stores the recurring weekly template and the
// date-specific overrides owned by each tutor.
type TemplateRepository struct {
	*base.Repository
}

func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{Repository: base.NewRepository(pool)}
}

// CreateWeeklySlot inserts a template entry. The unique index on
// (tutor_id, weekday, start_minute, medium) rejects duplicates.
func (r *TemplateRepository) CreateWeeklySlot(ctx context.Context, slot *model.WeeklySlot) error {
	query := `
		INSERT INTO weekly_slots (tutor_id, weekday, start_minute, medium)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		slot.TutorID,
		slot.Weekday,
		slot.StartMinute,
		slot.Medium,
	).Scan(&slot.ID, &slot.CreatedAt)

	if err != nil {
		return fmt.Errorf("create weekly slot: %w", err)
	}

	return nil
}

// ListWeeklySlots returns the tutor's template entries for a medium,
// ordered by weekday then start minute.
func (r *TemplateRepository) ListWeeklySlots(ctx context.Context, tutorID int64, medium model.Medium) ([]*model.WeeklySlot, error) {
	query := `
		SELECT id, tutor_id, weekday, start_minute, medium, created_at
		FROM weekly_slots
		WHERE tutor_id = $1 AND medium = $2
		ORDER BY weekday, start_minute
	`

	rows, err := r.Query(ctx, query, tutorID, medium)
	if err != nil {
		return nil, fmt.Errorf("list weekly slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.WeeklySlot
	for rows.Next() {
		var slot model.WeeklySlot
		err := rows.Scan(
			&slot.ID,
			&slot.TutorID,
			&slot.Weekday,
			&slot.StartMinute,
			&slot.Medium,
			&slot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan weekly slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weekly slots: %w", err)
	}

	return slots, nil
}

// DeleteWeeklySlot removes one template entry belonging to the tutor.
func (r *TemplateRepository) DeleteWeeklySlot(ctx context.Context, tutorID, id int64) error {
	query := `DELETE FROM weekly_slots WHERE id = $1 AND tutor_id = $2`

	affected, err := r.ExecAffected(ctx, query, id, tutorID)
	if err != nil {
		return fmt.Errorf("delete weekly slot: %w", err)
	}

	if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}

// UpsertOverride inserts or replaces the override for a
// (tutor, date, start_minute, medium) key.
func (r *TemplateRepository) UpsertOverride(ctx context.Context, ov *model.DateOverride) error {
	query := `
		INSERT INTO date_overrides (tutor_id, date, start_minute, medium, is_available)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tutor_id, date, start_minute, medium)
		DO UPDATE SET is_available = EXCLUDED.is_available
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		ov.TutorID,
		ov.Date,
		ov.StartMinute,
		ov.Medium,
		ov.IsAvailable,
	).Scan(&ov.ID, &ov.CreatedAt)

	if err != nil {
		return fmt.Errorf("upsert date override: %w", err)
	}

	return nil
}

// ListOverrides returns the tutor's overrides for a medium within [from, to].
func (r *TemplateRepository) ListOverrides(ctx context.Context, tutorID int64, medium model.Medium, from, to time.Time) ([]*model.DateOverride, error) {
	query := `
		SELECT id, tutor_id, date, start_minute, medium, is_available, created_at
		FROM date_overrides
		WHERE tutor_id = $1 AND medium = $2 AND date >= $3 AND date <= $4
		ORDER BY date, start_minute
	`

	rows, err := r.Query(ctx, query, tutorID, medium, from, to)
	if err != nil {
		return nil, fmt.Errorf("list date overrides: %w", err)
	}
	defer rows.Close()

	var overrides []*model.DateOverride
	for rows.Next() {
		var ov model.DateOverride
		err := rows.Scan(
			&ov.ID,
			&ov.TutorID,
			&ov.Date,
			&ov.StartMinute,
			&ov.Medium,
			&ov.IsAvailable,
			&ov.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan date override: %w", err)
		}
		overrides = append(overrides, &ov)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate date overrides: %w", err)
	}

	return overrides, nil
}

// DeleteOverride removes one override belonging to the tutor.
func (r *TemplateRepository) DeleteOverride(ctx context.Context, tutorID, id int64) error {
	query := `DELETE FROM date_overrides WHERE id = $1 AND tutor_id = $2`

	affected, err := r.ExecAffected(ctx, query, id, tutorID)
	if err != nil {
		return fmt.Errorf("delete date override: %w", err)
	}

	if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}
