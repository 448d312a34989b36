package domain

import "errors"

// Business failures are reported as sentinel errors so callers can branch
// with errors.Is instead of matching message text.
var (
	ErrFlightNotFound   = errors.New("flight not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNoSeatsAvailable = errors.New("no seats available")
	ErrAlreadyCancelled = errors.New("booking already cancelled")

	// ErrDuplicatePNR is internal: the booking service retries with a fresh
	// code and never surfaces it to callers.
	ErrDuplicatePNR = errors.New("duplicate pnr")

	// ErrStoreUnavailable is transient; the whole book/cancel call is safe to
	// retry by the caller.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrCancellationForbidden is returned for paid bookings when policy
	// disallows cancelling them.
	ErrCancellationForbidden = errors.New("cancellation forbidden by policy")

	// ErrInvariantViolation means seat accounting broke its contract
	// (seats_available outside [0, total_seats]). It must never occur; any
	// occurrence is a bug in the transactional core, not a user error.
	ErrInvariantViolation = errors.New("seat inventory invariant violated")
)
