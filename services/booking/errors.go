package booking

import "errors"

// Validation failures are rejected synchronously at submission; they never
// reach the decision engine.
var (
	ErrMissingFields    = errors.New("roomId, purpose, startTime and endTime are required")
	ErrInvalidTimeRange = errors.New("endTime must be after startTime")
	ErrStartTimePast    = errors.New("startTime must not be in the past")
	ErrInvalidAttendees = errors.New("attendeesCount must be positive")

	// ErrSlotTaken is returned when a concurrent request reserved the slot
	// between the availability check and the write.
	ErrSlotTaken = errors.New("requested slot is no longer available")

	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrAlreadyCancelled  = errors.New("booking is already cancelled")
)
