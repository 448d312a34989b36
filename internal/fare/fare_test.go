package fare

import (
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/stretchr/testify/assert"
)

func testFlight(total, available int, baseFareCents int64, departure time.Time) domain.Flight {
	return domain.Flight{
		FlightNo:       "AI101",
		TotalSeats:     total,
		SeatsAvailable: available,
		BaseFareCents:  baseFareCents,
		DepartureTime:  departure,
	}
}

func TestQuote_NoSurchargeTierCrossed(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	now := time.Now()

	// 10% sold, 10 days out: below every tier, price equals base fare.
	flight := testFlight(200, 180, 900000, now.Add(10*24*time.Hour))
	assert.Equal(t, int64(900000), engine.Quote(flight, now))
}

func TestQuote_HighOccupancySurcharge(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	now := time.Now()

	// 95% sold, far out: strictly above base fare.
	flight := testFlight(200, 10, 900000, now.Add(30*24*time.Hour))
	price := engine.Quote(flight, now)
	assert.Greater(t, price, int64(900000))
	assert.Equal(t, int64(1350000), price)
}

func TestQuote_FactorsCombineMultiplicatively(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	now := time.Now()

	// 95% sold and departing in 12 hours: 1.50 * 1.50.
	flight := testFlight(200, 10, 800000, now.Add(12*time.Hour))
	assert.Equal(t, int64(1800000), engine.Quote(flight, now))
}

func TestQuote_RoundsHalfUp(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	now := time.Now()

	// 1111 * 1.5 = 1666.5, rounds up to 1667.
	flight := testFlight(200, 10, 1111, now.Add(30*24*time.Hour))
	assert.Equal(t, int64(1667), engine.Quote(flight, now))
}

func TestQuote_NeverBelowBaseFare(t *testing.T) {
	policy := DefaultPolicy()
	policy.HighOccupancyFactor = 0.5 // discount tier, must still clamp
	engine := NewEngine(policy)
	now := time.Now()

	flight := testFlight(200, 50, 500000, now.Add(30*24*time.Hour))
	assert.Equal(t, int64(500000), engine.Quote(flight, now))
}

func TestQuote_MonotoneInOccupancy(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	now := time.Now()
	departure := now.Add(30 * 24 * time.Hour)

	prev := int64(0)
	for available := 200; available >= 0; available-- {
		price := engine.Quote(testFlight(200, available, 700000, departure), now)
		assert.GreaterOrEqual(t, price, prev, "price dropped at %d seats available", available)
		prev = price
	}
}

func TestQuote_MonotoneInTimeToDeparture(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	now := time.Now()

	prev := int64(0)
	for hours := 24 * 30; hours >= 1; hours-- {
		flight := testFlight(200, 100, 700000, now.Add(time.Duration(hours)*time.Hour))
		price := engine.Quote(flight, now)
		assert.GreaterOrEqual(t, price, prev, "price dropped at %d hours out", hours)
		prev = price
	}
}

func TestQuote_Deterministic(t *testing.T) {
	engine := NewEngine(DefaultPolicy())
	now := time.Now()
	flight := testFlight(200, 25, 642300, now.Add(2*24*time.Hour))

	first := engine.Quote(flight, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, engine.Quote(flight, now))
	}
}

func TestMerged_FillsZeroFields(t *testing.T) {
	merged := Merged(Policy{HighOccupancy: 0.60})
	def := DefaultPolicy()

	assert.Equal(t, 0.60, merged.HighOccupancy)
	assert.Equal(t, def.FullOccupancy, merged.FullOccupancy)
	assert.Equal(t, def.LastDayFactor, merged.LastDayFactor)
	assert.Equal(t, def.SoonDays, merged.SoonDays)
}
