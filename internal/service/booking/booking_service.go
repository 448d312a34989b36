package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/pnr"
	"github.com/Domenick1991/flightbooking/internal/repository"
)

// maxPNRAttempts bounds regeneration on reference-code collision before the
// call is reported as transient.
const maxPNRAttempts = 5

type BookingUseCase interface {
	Book(ctx context.Context, input BookInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	GetBookingByPNR(ctx context.Context, code string) (*domain.Booking, error)
	ListByFlight(ctx context.Context, flightID int64) ([]domain.Booking, error)
	Cancel(ctx context.Context, id int64) (*domain.Booking, error)
	Pay(ctx context.Context, id int64) (*domain.Booking, error)
}

// Quoter prices one seat on a flight; satisfied by fare.Engine.
type Quoter interface {
	Quote(flight domain.Flight, now time.Time) int64
}

// Cache drops stale search results after a mutation changed seat counts.
type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookInput struct {
	FlightID      int64  `json:"flight_id"`
	PassengerName string `json:"passenger_name"`
	SeatNo        string `json:"seat_no"`
}

type BookingService struct {
	bookings        repository.BookingRepository
	quoter          Quoter
	cache           Cache
	producer        Producer
	bookingTopic    string
	allowPaidCancel bool
}

type BookingServiceOption func(*BookingService)

// WithPaidCancellation controls whether a Paid booking may be cancelled.
func WithPaidCancellation(allowed bool) BookingServiceOption {
	return func(s *BookingService) {
		s.allowPaidCancel = allowed
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	quoter Quoter,
	cache Cache,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:        bookings,
		quoter:          quoter,
		cache:           cache,
		producer:        producer,
		bookingTopic:    bookingTopic,
		allowPaidCancel: true,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Book reserves a seat, prices it, and persists the booking as one atomic
// unit. A reference-code collision is retried with a fresh code; anything the
// store could not complete surfaces as ErrStoreUnavailable with no partial
// state left behind.
func (s *BookingService) Book(ctx context.Context, input BookInput) (*domain.Booking, error) {
	if input.FlightID <= 0 {
		return nil, errors.New("flight id is required")
	}
	if input.PassengerName == "" {
		return nil, errors.New("passenger name is required")
	}

	for attempt := 0; attempt < maxPNRAttempts; attempt++ {
		code, err := pnr.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate pnr: %w", err)
		}

		booking := &domain.Booking{
			FlightID:      input.FlightID,
			PassengerName: input.PassengerName,
			SeatNo:        input.SeatNo,
			PNR:           code,
		}
		err = s.bookings.Create(ctx, booking, s.quoter.Quote)
		if errors.Is(err, domain.ErrDuplicatePNR) {
			continue
		}
		if err != nil {
			return nil, mapStoreErr(err)
		}

		s.afterMutation(ctx, "booking_created", booking)
		return booking, nil
	}
	return nil, fmt.Errorf("%w: pnr generation exhausted after %d attempts", domain.ErrStoreUnavailable, maxPNRAttempts)
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return booking, nil
}

func (s *BookingService) GetBookingByPNR(ctx context.Context, code string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByPNR(ctx, code)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return booking, nil
}

func (s *BookingService) ListByFlight(ctx context.Context, flightID int64) ([]domain.Booking, error) {
	bookings, err := s.bookings.ListByFlight(ctx, flightID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return bookings, nil
}

// Cancel marks the booking cancelled and restores its seat together. A second
// cancel reports ErrAlreadyCancelled rather than silently succeeding, so
// callers can tell the difference.
func (s *BookingService) Cancel(ctx context.Context, id int64) (*domain.Booking, error) {
	updated, err := s.bookings.Cancel(ctx, id, s.allowPaidCancel)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	s.afterMutation(ctx, "booking_cancelled", updated)
	return updated, nil
}

// Pay transitions a confirmed booking to Paid. Paying twice is a no-op that
// returns the booking unchanged.
func (s *BookingService) Pay(ctx context.Context, id int64) (*domain.Booking, error) {
	updated, changed, err := s.bookings.Pay(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if changed {
		s.publish(ctx, "booking_paid", updated)
	}
	return updated, nil
}

func (s *BookingService) afterMutation(ctx context.Context, eventType string, booking *domain.Booking) {
	s.publish(ctx, eventType, booking)
	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			log.Printf("WARNING: invalidate flights cache: %v", err)
		}
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:          eventType,
		BookingID:     booking.ID,
		FlightID:      booking.FlightID,
		PNR:           booking.PNR,
		PassengerName: booking.PassengerName,
		PriceCents:    booking.PriceCents,
		Status:        string(booking.Status),
		CreatedAt:     booking.CreatedAt,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.PNR, event); err != nil {
		log.Printf("WARNING: publish %s for booking %s: %v", eventType, booking.PNR, err)
	}
}

// mapStoreErr passes the business-rule sentinels through and reports
// everything else as transient, safe for the caller to retry whole.
func mapStoreErr(err error) error {
	for _, known := range []error{
		domain.ErrFlightNotFound,
		domain.ErrBookingNotFound,
		domain.ErrNoSeatsAvailable,
		domain.ErrAlreadyCancelled,
		domain.ErrCancellationForbidden,
		domain.ErrInvariantViolation,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

var _ BookingUseCase = (*BookingService)(nil)
