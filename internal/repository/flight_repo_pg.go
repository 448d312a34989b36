package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
	ReserveSeat(ctx context.Context, flightID int64) error
	ReleaseSeat(ctx context.Context, flightID int64) error
	AuditSeatInvariants(ctx context.Context) ([]int64, error)
}

const flightColumns = `id, flight_no, origin, destination, departure_time, arrival_time, base_fare_cents, total_seats, seats_available, airline_name, created_at, updated_at`

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE 1=1`
	args := []any{}
	if filter.Origin != "" {
		args = append(args, filter.Origin)
		query += fmt.Sprintf(` AND origin ILIKE '%%' || $%d || '%%'`, len(args))
	}
	if filter.Destination != "" {
		args = append(args, filter.Destination)
		query += fmt.Sprintf(` AND destination ILIKE '%%' || $%d || '%%'`, len(args))
	}
	if !filter.Date.IsZero() {
		args = append(args, filter.Date)
		query += fmt.Sprintf(` AND departure_time::date = $%d::date`, len(args))
	}
	query += ` ORDER BY departure_time`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	f, err := scanFlight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	return r.db.QueryRow(ctx, `INSERT INTO flights (flight_no, origin, destination, departure_time, arrival_time, base_fare_cents, total_seats, seats_available, airline_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7, $8)
		RETURNING id, seats_available, created_at, updated_at`,
		flight.FlightNo, flight.Origin, flight.Destination, flight.DepartureTime, flight.ArrivalTime,
		flight.BaseFareCents, flight.TotalSeats, flight.AirlineName).
		Scan(&flight.ID, &flight.SeatsAvailable, &flight.CreatedAt, &flight.UpdatedAt)
}

// Delete removes the flight; its bookings go with it (ON DELETE CASCADE).
func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

// ReserveSeat atomically takes one seat. The check and the decrement are a
// single guarded UPDATE, so concurrent callers on the same flight can never
// drive seats_available below zero.
func (r *PGFlightRepository) ReserveSeat(ctx context.Context, flightID int64) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET seats_available = seats_available - 1, updated_at = now() WHERE id=$1 AND seats_available > 0`, flightID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		exists, err := r.exists(ctx, flightID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrFlightNotFound
		}
		return domain.ErrNoSeatsAvailable
	}
	return nil
}

// ReleaseSeat atomically returns one seat, clamped at total_seats so a
// double release cannot exceed capacity.
func (r *PGFlightRepository) ReleaseSeat(ctx context.Context, flightID int64) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET seats_available = LEAST(seats_available + 1, total_seats), updated_at = now() WHERE id=$1`, flightID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

// AuditSeatInvariants returns ids of flights whose seat counters escaped
// [0, total_seats]. The schema CHECK makes this unreachable; the worker still
// sweeps as an alarm for broken transactional code.
func (r *PGFlightRepository) AuditSeatInvariants(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM flights WHERE seats_available < 0 OR seats_available > total_seats`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var violated []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		violated = append(violated, id)
	}
	return violated, rows.Err()
}

func (r *PGFlightRepository) exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRow(ctx, `SELECT 1 FROM flights WHERE id=$1`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func scanFlight(row pgx.Row) (domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.ID, &f.FlightNo, &f.Origin, &f.Destination, &f.DepartureTime, &f.ArrivalTime,
		&f.BaseFareCents, &f.TotalSeats, &f.SeatsAvailable, &f.AirlineName, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

var _ FlightRepository = (*PGFlightRepository)(nil)
