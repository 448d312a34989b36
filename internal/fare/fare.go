// Package fare prices flights. Quote is a pure function of the flight's base
// fare, how full it is, and how soon it departs; it has no side effects and
// may be called any number of times, both for search results and as the
// authoritative price at booking time.
package fare

import (
	"math"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

// Policy holds the surcharge tiers. Factors combine multiplicatively and the
// result is rounded half-up to the minor unit, then clamped so the quote is
// never below base fare. Both factor sets must be non-decreasing for the
// monotonicity guarantees to hold.
type Policy struct {
	HighOccupancy       float64 // occupancy threshold for the first surcharge
	FullOccupancy       float64 // occupancy threshold for the second surcharge
	HighOccupancyFactor float64
	FullOccupancyFactor float64

	SoonDays       int // days-to-departure threshold for the first surcharge
	ImminentDays   int
	LastDay        int
	SoonFactor     float64
	ImminentFactor float64
	LastDayFactor  float64
}

// DefaultPolicy surcharges at 70%/90% occupancy and 7/3/1 days out.
func DefaultPolicy() Policy {
	return Policy{
		HighOccupancy:       0.70,
		FullOccupancy:       0.90,
		HighOccupancyFactor: 1.20,
		FullOccupancyFactor: 1.50,
		SoonDays:            7,
		ImminentDays:        3,
		LastDay:             1,
		SoonFactor:          1.15,
		ImminentFactor:      1.30,
		LastDayFactor:       1.50,
	}
}

// Merged fills any zero field of p from DefaultPolicy, so partial config
// overrides keep sane tiers.
func Merged(p Policy) Policy {
	def := DefaultPolicy()
	if p.HighOccupancy == 0 {
		p.HighOccupancy = def.HighOccupancy
	}
	if p.FullOccupancy == 0 {
		p.FullOccupancy = def.FullOccupancy
	}
	if p.HighOccupancyFactor == 0 {
		p.HighOccupancyFactor = def.HighOccupancyFactor
	}
	if p.FullOccupancyFactor == 0 {
		p.FullOccupancyFactor = def.FullOccupancyFactor
	}
	if p.SoonDays == 0 {
		p.SoonDays = def.SoonDays
	}
	if p.ImminentDays == 0 {
		p.ImminentDays = def.ImminentDays
	}
	if p.LastDay == 0 {
		p.LastDay = def.LastDay
	}
	if p.SoonFactor == 0 {
		p.SoonFactor = def.SoonFactor
	}
	if p.ImminentFactor == 0 {
		p.ImminentFactor = def.ImminentFactor
	}
	if p.LastDayFactor == 0 {
		p.LastDayFactor = def.LastDayFactor
	}
	return p
}

type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

// Quote returns the price in minor units for one seat on the flight as it
// stands now. Deterministic for a given flight state and clock reading.
func (e *Engine) Quote(flight domain.Flight, now time.Time) int64 {
	factor := e.occupancyFactor(flight.Occupancy()) * e.timeFactor(flight.DepartureTime.Sub(now))
	price := roundHalfUp(float64(flight.BaseFareCents) * factor)
	if price < flight.BaseFareCents {
		return flight.BaseFareCents
	}
	return price
}

func (e *Engine) occupancyFactor(occupancy float64) float64 {
	switch {
	case occupancy >= e.policy.FullOccupancy:
		return e.policy.FullOccupancyFactor
	case occupancy >= e.policy.HighOccupancy:
		return e.policy.HighOccupancyFactor
	default:
		return 1.0
	}
}

func (e *Engine) timeFactor(untilDeparture time.Duration) float64 {
	days := untilDeparture.Hours() / 24
	switch {
	case days < float64(e.policy.LastDay):
		return e.policy.LastDayFactor
	case days < float64(e.policy.ImminentDays):
		return e.policy.ImminentFactor
	case days < float64(e.policy.SoonDays):
		return e.policy.SoonFactor
	default:
		return 1.0
	}
}

func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
