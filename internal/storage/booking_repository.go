package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/campmatch/backend/internal/storage/models"
)

// BookingRepository provides data access for confirmed bookings.
type BookingRepository struct {
	BaseRepository
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const bookingColumns = `id, username, camp_id, camp_name, from_date, to_date, status, created_at`

// Create inserts a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.CreateIn(ctx, r.DB(), booking)
}

// CreateIn inserts a new booking using the given connection, which may be a
// transaction. Checkout inserts all cart items atomically through this.
func (r *BookingRepository) CreateIn(ctx context.Context, q Queryable, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = GenerateID()
	}
	if booking.Status == "" {
		booking.Status = models.BookingStatusUpcoming
	}
	booking.CreatedAt = r.Now()

	_, err := q.ExecContext(ctx, `
		INSERT INTO bookings (id, username, camp_id, camp_name, from_date, to_date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		booking.ID, booking.Username, booking.CampID, booking.CampName,
		booking.FromDate, booking.ToDate, booking.Status, booking.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("inserting booking: %w", err)
	}

	return nil
}

// GetByID retrieves a booking by its ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	booking := &models.Booking{}

	err := r.DB().QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id).Scan(
		&booking.ID, &booking.Username, &booking.CampID, &booking.CampName,
		&booking.FromDate, &booking.ToDate, &booking.Status, &booking.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying booking: %w", err)
	}

	return booking, nil
}

// ListAll retrieves every booking, oldest first.
func (r *BookingRepository) ListAll(ctx context.Context) ([]models.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY from_date, id`)
}

// ListByCampground retrieves all bookings for one campground.
func (r *BookingRepository) ListByCampground(ctx context.Context, campID string) ([]models.Booking, error) {
	return r.list(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE camp_id = ? ORDER BY from_date, id`, campID)
}

// ListByUser retrieves all bookings made by a user.
func (r *BookingRepository) ListByUser(ctx context.Context, username string) ([]models.Booking, error) {
	return r.list(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE username = ? ORDER BY from_date, id`, username)
}

// Exists reports whether an identical booking is already recorded.
// The importer uses this to keep seed re-imports idempotent.
func (r *BookingRepository) Exists(ctx context.Context, booking *models.Booking) (bool, error) {
	var count int
	err := r.DB().QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE username = ? AND camp_id = ? AND from_date = ? AND to_date = ?
	`, booking.Username, booking.CampID, booking.FromDate, booking.ToDate).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking booking existence: %w", err)
	}
	return count > 0, nil
}

// UpdateStatus transitions a booking to a new lifecycle status.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.DB().ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("updating booking status: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("booking not found: %s", id)
	}

	return nil
}

// DueActivations retrieves upcoming bookings whose stay has started as of the
// given date (inclusive on both endpoints).
func (r *BookingRepository) DueActivations(ctx context.Context, today string) ([]models.Booking, error) {
	return r.list(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE status = ? AND from_date <= ? AND to_date >= ?
		ORDER BY from_date, id
	`, models.BookingStatusUpcoming, today, today)
}

// DueCompletions retrieves bookings whose stay ended before the given date.
func (r *BookingRepository) DueCompletions(ctx context.Context, today string) ([]models.Booking, error) {
	return r.list(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE status != ? AND to_date < ?
		ORDER BY to_date, id
	`, models.BookingStatusCompleted, today)
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(
			&b.ID, &b.Username, &b.CampID, &b.CampName,
			&b.FromDate, &b.ToDate, &b.Status, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}
