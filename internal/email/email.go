package email

import (
	"context"
	"log"

	"github.com/Domenick1991/flightbooking/internal/kafka"
)

// Sender delivers booking notifications. The transport is a stub; the worker
// wires it to the notifications topic.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	log.Printf("notify %s: %s booking %s on flight %d (%.2f)",
		event.PassengerName, event.Type, event.PNR, event.FlightID, float64(event.PriceCents)/100)
	return nil
}
