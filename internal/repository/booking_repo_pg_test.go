package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewBookingRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewBookingRepository(pool)
	assert.NotNil(t, repo)
}

func TestIsPNRConflict(t *testing.T) {
	assert.True(t, isPNRConflict(&pgconn.PgError{Code: "23505", ConstraintName: "bookings_pnr_unique"}))
	assert.False(t, isPNRConflict(&pgconn.PgError{Code: "23505", ConstraintName: "flights_flight_no_key"}))
	assert.False(t, isPNRConflict(&pgconn.PgError{Code: "23503", ConstraintName: "bookings_pnr_unique"}))
	assert.False(t, isPNRConflict(errors.New("connection refused")))
	assert.False(t, isPNRConflict(nil))
}
