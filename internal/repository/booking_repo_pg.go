package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuoteFunc prices one seat on a flight. Create calls it with the flight row
// state as of the reservation it just made, inside the booking transaction,
// so the charged price is consistent with the decision to book.
type QuoteFunc func(flight domain.Flight, now time.Time) int64

type BookingRepository interface {
	// Create reserves a seat and inserts the booking as one atomic unit:
	// either both are visible afterwards or neither is.
	Create(ctx context.Context, booking *domain.Booking, quote QuoteFunc) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error)
	ListByFlight(ctx context.Context, flightID int64) ([]domain.Booking, error)
	// Cancel marks the booking cancelled and restores its seat together.
	Cancel(ctx context.Context, id int64, allowPaid bool) (*domain.Booking, error)
	// Pay transitions Confirmed to Paid; the bool reports whether the status
	// actually changed (false when the booking was already paid).
	Pay(ctx context.Context, id int64) (*domain.Booking, bool, error)
}

const bookingColumns = `id, flight_id, passenger_name, seat_no, pnr, price_cents, status, created_at, updated_at`

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking, quote QuoteFunc) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Row lock serializes concurrent bookings on the same flight; bookings on
	// different flights never contend.
	row := tx.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1 FOR UPDATE`, booking.FlightID)
	flight, err := scanFlight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrFlightNotFound
		}
		return err
	}
	if flight.SeatsAvailable <= 0 {
		return domain.ErrNoSeatsAvailable
	}

	var available int
	if err := tx.QueryRow(ctx, `UPDATE flights SET seats_available = seats_available - 1, updated_at = now() WHERE id=$1 AND seats_available > 0 RETURNING seats_available`, booking.FlightID).Scan(&available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNoSeatsAvailable
		}
		return err
	}
	if available < 0 || available > flight.TotalSeats {
		return domain.ErrInvariantViolation
	}

	// Price reflects occupancy including the seat just reserved.
	flight.SeatsAvailable = available
	booking.PriceCents = quote(flight, time.Now())
	booking.Status = domain.BookingStatusConfirmed

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (flight_id, passenger_name, seat_no, pnr, price_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		booking.FlightID, booking.PassengerName, booking.SeatNo, booking.PNR, booking.PriceCents, booking.Status).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		if isPNRConflict(err) {
			return domain.ErrDuplicatePNR
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.get(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
}

func (r *PGBookingRepository) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	return r.get(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE pnr=$1`, strings.ToUpper(pnr))
}

func (r *PGBookingRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE flight_id=$1 ORDER BY created_at`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Cancel(ctx context.Context, id int64, allowPaid bool) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	booking, err := lockBooking(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	if booking.Status == domain.BookingStatusPaid && !allowPaid {
		return nil, domain.ErrCancellationForbidden
	}

	heldSeat := booking.HoldsSeat()
	row := tx.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2 RETURNING `+bookingColumns, domain.BookingStatusCancelled, id)
	updated, err := scanBooking(row)
	if err != nil {
		return nil, err
	}

	if heldSeat {
		// Clamped so a seat can never be released past capacity.
		if _, err := tx.Exec(ctx, `UPDATE flights SET seats_available = LEAST(seats_available + 1, total_seats), updated_at = now() WHERE id=$1`, updated.FlightID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *PGBookingRepository) Pay(ctx context.Context, id int64) (*domain.Booking, bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	booking, err := lockBooking(ctx, tx, id)
	if err != nil {
		return nil, false, err
	}
	switch booking.Status {
	case domain.BookingStatusCancelled:
		return nil, false, domain.ErrAlreadyCancelled
	case domain.BookingStatusPaid:
		return booking, false, tx.Commit(ctx)
	}

	row := tx.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2 RETURNING `+bookingColumns, domain.BookingStatusPaid, id)
	updated, err := scanBooking(row)
	if err != nil {
		return nil, false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return &updated, true, nil
}

func (r *PGBookingRepository) get(ctx context.Context, query string, arg any) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func lockBooking(ctx context.Context, tx pgx.Tx, id int64) (*domain.Booking, error) {
	row := tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 FOR UPDATE`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func scanBooking(row pgx.Row) (domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.FlightID, &b.PassengerName, &b.SeatNo, &b.PNR, &b.PriceCents, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func isPNRConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "pnr")
}

var _ BookingRepository = (*PGBookingRepository)(nil)
