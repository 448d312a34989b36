package domain

import "time"

type Flight struct {
	ID             int64
	FlightNo       string
	Origin         string
	Destination    string
	DepartureTime  time.Time
	ArrivalTime    time.Time
	BaseFareCents  int64
	TotalSeats     int
	SeatsAvailable int
	AirlineName    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Occupancy is the fraction of seats sold, in [0, 1].
func (f Flight) Occupancy() float64 {
	if f.TotalSeats <= 0 {
		return 0
	}
	return 1 - float64(f.SeatsAvailable)/float64(f.TotalSeats)
}

// SearchFilter narrows flight search; zero values mean "any".
// Date matches the calendar day of departure.
type SearchFilter struct {
	Origin      string
	Destination string
	Date        time.Time
}

// FlightQuote is a search result: the flight plus the price computed for it
// right now. Quotes are advisory; the charged price is recomputed at booking
// time from the row state the booking transaction locks.
type FlightQuote struct {
	Flight     Flight
	PriceCents int64
}
