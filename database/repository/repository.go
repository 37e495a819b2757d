package repository

import (
	"context"
	"errors"
	"time"

	"roomdesk/models"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// BookingRepository defines data access for bookings and their overlap queries.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	// CreateWithHistory inserts the booking and its initial history entry
	// atomically.
	CreateWithHistory(ctx context.Context, booking *models.Booking, history *models.BookingHistory) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id, status string, confidence *float64, rationale string) error
	UpdateDecision(ctx context.Context, id string, confidence float64, rationale string) error
	// FindOverlapping returns non-cancelled bookings for the room whose
	// interval intersects [start, end): existingStart < end && existingEnd > start.
	FindOverlapping(ctx context.Context, roomID string, start, end time.Time) ([]models.Booking, error)
	// FindByRoom filters by status when status is non-empty.
	FindByRoom(ctx context.Context, roomID, status string) ([]models.Booking, error)
	FindByUser(ctx context.Context, userID string) ([]models.Booking, error)
	FindPending(ctx context.Context) ([]models.Booking, error)
	FindByMinPriority(ctx context.Context, minPriority int) ([]models.Booking, error)
	FindAll(ctx context.Context) ([]models.Booking, error)
}

// RoomRepository defines read access to room metadata.
type RoomRepository interface {
	GetByID(ctx context.Context, id string) (*models.Room, error)
	FindAll(ctx context.Context) ([]models.Room, error)
	FindByMinCapacity(ctx context.Context, minCapacity int) ([]models.Room, error)
}

// ApprovalLogRepository persists immutable evaluation records.
type ApprovalLogRepository interface {
	Create(ctx context.Context, entry *models.ApprovalLog) error
	FindByBooking(ctx context.Context, bookingID string) ([]models.ApprovalLog, error)
}

// BookingHistoryRepository persists status-transition audit entries.
type BookingHistoryRepository interface {
	Create(ctx context.Context, entry *models.BookingHistory) error
	// FindByBooking returns entries newest first.
	FindByBooking(ctx context.Context, bookingID string) ([]models.BookingHistory, error)
}
