package flights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
)

type FlightUseCase interface {
	Search(ctx context.Context, filter domain.SearchFilter) ([]domain.FlightQuote, error)
	GetByID(ctx context.Context, id int64) (*domain.FlightQuote, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
}

// Quoter prices one seat on a flight; satisfied by fare.Engine.
type Quoter interface {
	Quote(flight domain.Flight, now time.Time) int64
}

// Cache is a read-through cache of search results keyed by filter. Entries
// expire on TTL and are dropped after any booking mutation.
type Cache interface {
	GetFlights(ctx context.Context, filter domain.SearchFilter) ([]domain.Flight, error)
	SetFlights(ctx context.Context, filter domain.SearchFilter, flights []domain.Flight) error
}

type FlightService struct {
	repo   repository.FlightRepository
	quoter Quoter
	cache  Cache
}

func NewFlightService(repo repository.FlightRepository, quoter Quoter, cache Cache) *FlightService {
	return &FlightService{repo: repo, quoter: quoter, cache: cache}
}

// Search returns matching flights with a current price for each. Read-only:
// quoting changes no state, so the same search can be repeated freely.
func (s *FlightService) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.FlightQuote, error) {
	flights, err := s.searchFlights(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	quotes := make([]domain.FlightQuote, 0, len(flights))
	for _, f := range flights {
		quotes = append(quotes, domain.FlightQuote{Flight: f, PriceCents: s.quoter.Quote(f, now)})
	}
	return quotes, nil
}

func (s *FlightService) searchFlights(ctx context.Context, filter domain.SearchFilter) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx, filter); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, filter, flights)
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.FlightQuote, error) {
	flight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return &domain.FlightQuote{Flight: *flight, PriceCents: s.quoter.Quote(*flight, time.Now())}, nil
}

func (s *FlightService) Create(ctx context.Context, flight *domain.Flight) error {
	if flight.FlightNo == "" {
		return errors.New("flight number is required")
	}
	if flight.TotalSeats <= 0 {
		return errors.New("total seats must be positive")
	}
	if flight.BaseFareCents <= 0 {
		return errors.New("base fare must be positive")
	}
	if !flight.ArrivalTime.After(flight.DepartureTime) {
		return errors.New("arrival must be after departure")
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// Delete removes a flight and, through the schema, its bookings.
func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, domain.ErrFlightNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

var _ FlightUseCase = (*FlightService)(nil)
