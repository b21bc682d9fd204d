package repository

//go:generate go run go.uber.org/mock/mockgen -source=./booking_repo.go -destination=./mocks/booking_repo_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lawn-booking/internal/data/entity"
	"lawn-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrSlotTaken       = errors.New("slot already booked")
)

// exclusion_violation, raised by bookings_slot_excl
const pgExclusionViolation = "23P01"

const bookingColumns = `id, customer_name, customer_number, start_date, end_date, event_timing, event_type,
		hall_charges, selected_thali, thali_price, number_of_people, items, catering_total, item_total,
		total_price, discount, discount_amount, final_price, payment_status, created_at, updated_at`

type BookingRepository interface {
	// CreateIfSlotFree inserts booking unless another booking with the same
	// timing overlaps its date range. Returns ErrSlotTaken on conflict.
	CreateIfSlotFree(ctx context.Context, booking *entity.Booking) error
	FindAll(ctx context.Context) ([]*entity.Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindOverlapping(ctx context.Context, start, end time.Time, eventTiming string) ([]*entity.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) (*entity.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) CreateIfSlotFree(ctx context.Context, booking *entity.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Serialises creators competing for the same timing until commit.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, booking.EventTiming); err != nil {
		return fmt.Errorf("lock slot %s: %w", booking.EventTiming, err)
	}

	var taken bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE event_timing = $1 AND start_date <= $3 AND end_date >= $2
		)`,
		booking.EventTiming, booking.StartDate, booking.EndDate,
	).Scan(&taken)
	if err != nil {
		return fmt.Errorf("check slot %s: %w", booking.EventTiming, err)
	}

	if taken {
		return ErrSlotTaken
	}

	query := `INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	_, err = tx.Exec(ctx, query,
		booking.ID,
		booking.CustomerName,
		booking.CustomerNumber,
		booking.StartDate,
		booking.EndDate,
		booking.EventTiming,
		booking.EventType,
		booking.HallCharges,
		booking.SelectedThali,
		booking.ThaliPrice,
		booking.NumberOfPeople,
		booking.Items,
		booking.CateringTotal,
		booking.ItemTotal,
		booking.TotalPrice,
		booking.Discount,
		booking.DiscountAmount,
		booking.FinalPrice,
		booking.PaymentStatus,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
			return ErrSlotTaken
		}

		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("event_timing", booking.EventTiming),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
			return ErrSlotTaken
		}
		return fmt.Errorf("commit booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindAll(ctx context.Context) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find bookings", zap.Error(err))
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindOverlapping(ctx context.Context, start, end time.Time, eventTiming string) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE event_timing = $1 AND start_date <= $3 AND end_date >= $2
		ORDER BY start_date`

	rows, err := r.db.Query(ctx, query, eventTiming, start, end)
	if err != nil {
		r.log.Error("Failed to find overlapping bookings",
			zap.Error(err),
			zap.String("event_timing", eventTiming),
		)
		return nil, fmt.Errorf("find overlapping bookings: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *bookingRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) (*entity.Booking, error) {
	query := `UPDATE bookings SET payment_status = $2,
		updated_at = GREATEST(NOW(), updated_at + INTERVAL '1 microsecond')
		WHERE id = $1
		RETURNING ` + bookingColumns

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("update booking %s payment status to %s: %w", id.String(), status, err)
	}

	return booking, nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	r.log.Info("Booking deleted", zap.String("booking_id", id.String()))
	return nil
}

func (r *bookingRepository) collect(rows pgx.Rows) ([]*entity.Booking, error) {
	bookings := []*entity.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.CustomerName,
		&booking.CustomerNumber,
		&booking.StartDate,
		&booking.EndDate,
		&booking.EventTiming,
		&booking.EventType,
		&booking.HallCharges,
		&booking.SelectedThali,
		&booking.ThaliPrice,
		&booking.NumberOfPeople,
		&booking.Items,
		&booking.CateringTotal,
		&booking.ItemTotal,
		&booking.TotalPrice,
		&booking.Discount,
		&booking.DiscountAmount,
		&booking.FinalPrice,
		&booking.PaymentStatus,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
