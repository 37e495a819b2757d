package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"roomdesk/models"
)

// allowedTransitions is the booking status state machine. APPROVED and
// REJECTED are terminal for decisions but may still be cancelled; CANCELLED
// is fully terminal.
var allowedTransitions = map[string]map[string]bool{
	models.StatusNew: {
		models.StatusApproved: true,
		models.StatusRejected: true,
		models.StatusPending:  true,
	},
	models.StatusPending: {
		models.StatusApproved:  true,
		models.StatusRejected:  true,
		models.StatusCancelled: true,
	},
	models.StatusApproved: {
		models.StatusCancelled: true,
	},
	models.StatusRejected: {
		models.StatusCancelled: true,
	},
	models.StatusCancelled: {},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	return allowedTransitions[from][to]
}

// Transition validates the status change and produces the single audit entry
// every transition must record. Confidence and rationale are set for
// system-driven transitions and left empty for manual ones.
func Transition(b *models.Booking, to, changedBy, reason string, confidence *float64, rationale string) (*models.BookingHistory, error) {
	if b.Status == models.StatusCancelled && to == models.StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if !CanTransition(b.Status, to) {
		return nil, fmt.Errorf("%s -> %s: %w", b.Status, to, ErrInvalidTransition)
	}
	entry := &models.BookingHistory{
		ID:             uuid.NewString(),
		BookingID:      b.ID,
		PreviousStatus: b.Status,
		NewStatus:      to,
		ChangedBy:      changedBy,
		Reason:         reason,
		Confidence:     confidence,
		Rationale:      rationale,
		ChangedAt:      time.Now(),
	}
	b.Status = to
	return entry, nil
}
