package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusPaid      BookingStatus = "PAID"
)

type Booking struct {
	ID            int64
	FlightID      int64
	PassengerName string
	SeatNo        string
	PNR           string
	PriceCents    int64
	Status        BookingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HoldsSeat reports whether the booking currently accounts for one seat of
// the flight's inventory.
func (b Booking) HoldsSeat() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusPaid
}
