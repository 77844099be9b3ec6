package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tutorlane/slotengine/internal/model"
	"github.com/tutorlane/slotengine/internal/repository/base"
)

// ProfileRepository reads the pricing and cancellation-policy fields the
// profile collaborator maintains for each tutor.
type ProfileRepository struct {
	*base.Repository
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{Repository: base.NewRepository(pool)}
}

// Get returns the tutor's profile, or nil when none exists. A missing
// profile is not an error: policy defaults still apply on reads.
func (r *ProfileRepository) Get(ctx context.Context, tutorID int64) (*model.TutorProfile, error) {
	query := `
		SELECT tutor_id, base_hourly_rate_cents, group_hourly_rate_cents, max_group_size,
		       cancellation_notice_hours, late_refund_percent
		FROM tutor_profiles
		WHERE tutor_id = $1
	`

	var profile model.TutorProfile
	err := r.QueryRow(ctx, query, tutorID).Scan(
		&profile.TutorID,
		&profile.BaseHourlyRateCents,
		&profile.GroupHourlyRateCents,
		&profile.MaxGroupSize,
		&profile.NoticeHours,
		&profile.LateRefundPercent,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tutor profile: %w", err)
	}

	return &profile, nil
}

// Upsert writes the tutor's profile fields.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *model.TutorProfile) error {
	query := `
		INSERT INTO tutor_profiles (tutor_id, base_hourly_rate_cents, group_hourly_rate_cents,
		                            max_group_size, cancellation_notice_hours, late_refund_percent)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tutor_id) DO UPDATE SET
			base_hourly_rate_cents = EXCLUDED.base_hourly_rate_cents,
			group_hourly_rate_cents = EXCLUDED.group_hourly_rate_cents,
			max_group_size = EXCLUDED.max_group_size,
			cancellation_notice_hours = EXCLUDED.cancellation_notice_hours,
			late_refund_percent = EXCLUDED.late_refund_percent
	`

	_, err := r.Pool().Exec(
		ctx, query,
		profile.TutorID,
		profile.BaseHourlyRateCents,
		profile.GroupHourlyRateCents,
		profile.MaxGroupSize,
		profile.NoticeHours,
		profile.LateRefundPercent,
	)

	if err != nil {
		return fmt.Errorf("upsert tutor profile: %w", err)
	}

	return nil
}
