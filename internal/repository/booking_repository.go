package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
	"github.com/tutorlane/slotengine/internal/model"
	"github.com/tutorlane/slotengine/internal/repository/base"
	"github.com/tutorlane/slotengine/internal/schedule"
)

const bookingColumns = `id, reference, tutor_id, student_id, medium, scheduled_at,
	duration_minutes, status, price_cents, refund_percent, created_at, updated_at`

// BookingRepository owns the bookings table. Rows are never deleted; state
// transitions are conditional updates so concurrent transitions cannot
// clobber each other.
type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// CreateExclusive inserts a booking after re-validating availability inside
// a transaction that holds a per-(tutor, date, medium) advisory lock. The
// check callback receives the live non-cancelled bookings for the booking's
// day and returns model.ErrSlotTaken to abort the insert.
//
// Transient serialization and deadlock failures are retried with backoff;
// ErrSlotTaken is final and never retried.
func (r *BookingRepository) CreateExclusive(ctx context.Context, booking *model.Booking, check func(existing []*model.Booking) error) error {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(50*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := r.createExclusiveOnce(ctx, booking, check)
		if err != nil && isTransientTxError(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (r *BookingRepository) createExclusiveOnce(ctx context.Context, booking *model.Booking, check func(existing []*model.Booking) error) error {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	day := schedule.DateOf(booking.ScheduledAt)
	lockKey := fmt.Sprintf("booking:%d:%s:%s", booking.TutorID, day.Format("2006-01-02"), booking.Medium)

	// Serializes committers on the same (tutor, date, medium) partition.
	// Different tutors, dates or media never contend on this lock.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return fmt.Errorf("acquire booking lock: %w", err)
	}

	existing, err := r.listActiveTx(ctx, tx, booking.TutorID, booking.Medium, day, day.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	if err := check(existing); err != nil {
		return err
	}

	insert := `
		INSERT INTO bookings (reference, tutor_id, student_id, medium, scheduled_at,
		                      duration_minutes, status, price_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRow(
		ctx, insert,
		booking.Reference,
		booking.TutorID,
		booking.StudentID,
		booking.Medium,
		booking.ScheduledAt,
		booking.DurationMinutes,
		booking.Status,
		booking.PriceCents,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// ListActive returns the tutor's non-cancelled bookings for a medium whose
// span overlaps [from, to).
func (r *BookingRepository) ListActive(ctx context.Context, tutorID int64, medium model.Medium, from, to time.Time) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE tutor_id = $1
		  AND medium = $2
		  AND status <> 'cancelled'
		  AND scheduled_at < $4
		  AND scheduled_at + duration_minutes * interval '1 minute' > $3
		ORDER BY scheduled_at
	`

	rows, err := r.Query(ctx, query, tutorID, medium, from, to)
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (r *BookingRepository) listActiveTx(ctx context.Context, tx pgx.Tx, tutorID int64, medium model.Medium, from, to time.Time) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE tutor_id = $1
		  AND medium = $2
		  AND status <> 'cancelled'
		  AND scheduled_at < $4
		  AND scheduled_at + duration_minutes * interval '1 minute' > $3
		ORDER BY scheduled_at
	`

	rows, err := tx.Query(ctx, query, tutorID, medium, from, to)
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByID returns a booking, or nil when it does not exist.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByReference returns a booking by its external reference.
func (r *BookingRepository) GetByReference(ctx context.Context, reference uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = $1`
	return r.getOne(ctx, query, reference)
}

func (r *BookingRepository) getOne(ctx context.Context, query string, arg interface{}) (*model.Booking, error) {
	var b model.Booking
	err := r.QueryRow(ctx, query, arg).Scan(
		&b.ID,
		&b.Reference,
		&b.TutorID,
		&b.StudentID,
		&b.Medium,
		&b.ScheduledAt,
		&b.DurationMinutes,
		&b.Status,
		&b.PriceCents,
		&b.RefundPercent,
		&b.CreatedAt,
		&b.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}

	return &b, nil
}

// ListByStudent returns a student's bookings, newest first.
func (r *BookingRepository) ListByStudent(ctx context.Context, studentID int64) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE student_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by student: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListByTutor returns a tutor's bookings, newest first.
func (r *BookingRepository) ListByTutor(ctx context.Context, tutorID int64) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE tutor_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by tutor: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Confirm flips a pending booking to confirmed. Returns false when the
// booking is not pending (expired, cancelled, or already confirmed).
func (r *BookingRepository) Confirm(ctx context.Context, reference uuid.UUID) (bool, error) {
	query := `
		UPDATE bookings
		SET status = 'confirmed', updated_at = now()
		WHERE reference = $1 AND status = 'pending'
	`

	affected, err := r.ExecAffected(ctx, query, reference)
	if err != nil {
		return false, fmt.Errorf("confirm booking: %w", err)
	}

	return affected > 0, nil
}

// CancelActive flips a pending or confirmed booking to cancelled and records
// the refund percent. Returns false when the booking already left the active
// states, so a concurrent completion wins over a late cancellation.
func (r *BookingRepository) CancelActive(ctx context.Context, id int64, refundPercent int) (bool, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', refund_percent = $2, updated_at = now()
		WHERE id = $1 AND status IN ('pending', 'confirmed')
	`

	affected, err := r.ExecAffected(ctx, query, id, refundPercent)
	if err != nil {
		return false, fmt.Errorf("cancel booking: %w", err)
	}

	return affected > 0, nil
}

// ExpirePending cancels pending bookings created before cutoff, freeing
// their slots for rebooking. Payment was never captured, so the recorded
// refund is the full amount.
func (r *BookingRepository) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', refund_percent = 100, updated_at = now()
		WHERE status = 'pending' AND created_at < $1
	`

	affected, err := r.ExecAffected(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire pending bookings: %w", err)
	}

	return affected, nil
}

// CompleteElapsed marks confirmed bookings whose sessions have ended as
// completed.
func (r *BookingRepository) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET status = 'completed', updated_at = now()
		WHERE status = 'confirmed'
		  AND scheduled_at + duration_minutes * interval '1 minute' <= $1
	`

	affected, err := r.ExecAffected(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("complete elapsed bookings: %w", err)
	}

	return affected, nil
}

func scanBookings(rows pgx.Rows) ([]*model.Booking, error) {
	var bookings []*model.Booking
	for rows.Next() {
		var b model.Booking
		err := rows.Scan(
			&b.ID,
			&b.Reference,
			&b.TutorID,
			&b.StudentID,
			&b.Medium,
			&b.ScheduledAt,
			&b.DurationMinutes,
			&b.Status,
			&b.PriceCents,
			&b.RefundPercent,
			&b.CreatedAt,
			&b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

// isTransientTxError reports whether err is a serialization failure or
// deadlock that a fresh transaction attempt can resolve.
func isTransientTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
