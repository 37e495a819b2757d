package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"roomdesk/database/repository"
	"roomdesk/models"
	"roomdesk/services/decision"
	"roomdesk/services/notification"
	"roomdesk/utils"
)

// Service manages the booking lifecycle: creation with automated decisioning,
// status transitions, cancellation and queries.
type Service interface {
	Create(ctx context.Context, b *models.Booking) (*models.Booking, decision.Decision, error)
	// Validate runs the same checks and decision pipeline as Create without
	// persisting anything.
	Validate(ctx context.Context, b *models.Booking) (decision.Decision, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id, newStatus, changedBy, reason string) (*models.Booking, error)
	Cancel(ctx context.Context, id, cancelledBy, reason string) error
	Availability(ctx context.Context, roomID string, start, end time.Time) (bool, []models.Booking, error)
	History(ctx context.Context, bookingID string) ([]models.BookingHistory, error)
	ByRoom(ctx context.Context, roomID, status string) ([]models.Booking, error)
	ByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ByMinPriority(ctx context.Context, minPriority int) ([]models.Booking, error)
	All(ctx context.Context) ([]models.Booking, error)
}

// DefaultBookingService is the production implementation backed by mongo
// repositories and the decision orchestrator.
type DefaultBookingService struct {
	bookings  repository.BookingRepository
	rooms     repository.RoomRepository
	history   repository.BookingHistoryRepository
	decider   *decision.Orchestrator
	scheduler notification.Scheduler
	logger    *zap.Logger

	// roomLocks serializes check-then-reserve per room; bookingLocks
	// serializes status read-modify-write per booking and is shared with
	// the approval service so admin verdicts cannot race cancellations.
	roomLocks    *KeyedMutex
	bookingLocks *KeyedMutex
}

func NewBookingService(
	bookings repository.BookingRepository,
	rooms repository.RoomRepository,
	history repository.BookingHistoryRepository,
	decider *decision.Orchestrator,
	scheduler notification.Scheduler,
	bookingLocks *KeyedMutex,
) *DefaultBookingService {
	return &DefaultBookingService{
		bookings:     bookings,
		rooms:        rooms,
		history:      history,
		decider:      decider,
		scheduler:    scheduler,
		logger:       utils.GetLogger().Named("booking"),
		roomLocks:    NewKeyedMutex(),
		bookingLocks: bookingLocks,
	}
}

func validateBooking(b *models.Booking) error {
	if b.RoomID == "" || strings.TrimSpace(b.Purpose) == "" || b.StartTime.IsZero() || b.EndTime.IsZero() {
		return ErrMissingFields
	}
	if !b.EndTime.After(b.StartTime) {
		return ErrInvalidTimeRange
	}
	if b.StartTime.Before(time.Now()) {
		return ErrStartTimePast
	}
	if b.AttendeesCount <= 0 {
		return ErrInvalidAttendees
	}
	return nil
}

// Create validates the request, evaluates it, and persists the booking with
// its initial audit entry. The availability check and the write happen under
// a per-room lock so two concurrent requests for an overlapping slot cannot
// both be admitted.
func (s *DefaultBookingService) Create(ctx context.Context, b *models.Booking) (*models.Booking, decision.Decision, error) {
	if err := validateBooking(b); err != nil {
		return nil, decision.Decision{}, err
	}

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Priority == 0 {
		b.Priority = 3
	}
	b.Status = models.StatusNew
	b.CreatedAt = time.Now()

	room := s.roomForBooking(ctx, b.RoomID)

	s.roomLocks.Lock(b.RoomID)
	defer s.roomLocks.Unlock(b.RoomID)

	overlaps, err := s.bookings.FindOverlapping(ctx, b.RoomID, b.StartTime, b.EndTime)
	if err != nil {
		return nil, decision.Decision{}, err
	}

	d := s.decider.Decide(ctx, b, overlaps, room)
	status := statusForAction(d.Action)
	if status == models.StatusApproved && len(overlaps) > 0 {
		// The decision engine is advisory; an occupied slot is never
		// auto-approved regardless of what it said.
		return nil, d, ErrSlotTaken
	}

	confidence := d.Confidence
	rationale := strings.Join(d.Rationale, "; ")
	b.DecisionConfidence = &confidence
	b.DecisionRationale = rationale

	entry, err := Transition(b, status, "SYSTEM", "Initial booking creation", &confidence, rationale)
	if err != nil {
		return nil, d, err
	}
	if err := s.bookings.CreateWithHistory(ctx, b, entry); err != nil {
		return nil, d, err
	}

	s.logger.Info("booking created",
		zap.String("id", b.ID),
		zap.String("room", b.RoomID),
		zap.String("status", b.Status),
		zap.Float64("confidence", confidence))

	if s.scheduler != nil {
		if err := s.scheduler.ScheduleBookingReminders(ctx, b, room); err != nil {
			s.logger.Warn("reminders not scheduled", zap.String("id", b.ID), zap.Error(err))
		}
	}
	return b, d, nil
}

// Validate is the dry-run counterpart of Create: same validation and decision
// pipeline, nothing persisted and no locks taken.
func (s *DefaultBookingService) Validate(ctx context.Context, b *models.Booking) (decision.Decision, error) {
	if err := validateBooking(b); err != nil {
		return decision.Decision{}, err
	}
	overlaps, err := s.bookings.FindOverlapping(ctx, b.RoomID, b.StartTime, b.EndTime)
	if err != nil {
		return decision.Decision{}, err
	}
	room := s.roomForBooking(ctx, b.RoomID)
	return s.decider.Decide(ctx, b, overlaps, room), nil
}

func (s *DefaultBookingService) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// UpdateStatus applies a manual status transition under a per-booking lock so
// an admin action and the approval sweep cannot race each other.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, id, newStatus, changedBy, reason string) (*models.Booking, error) {
	s.bookingLocks.Lock(id)
	defer s.bookingLocks.Unlock(id)

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entry, err := Transition(b, newStatus, changedBy, reason, nil, "")
	if err != nil {
		return nil, err
	}
	if err := s.bookings.UpdateStatus(ctx, id, b.Status, nil, ""); err != nil {
		return nil, err
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Error("history entry not recorded", zap.String("id", id), zap.Error(err))
	}
	return b, nil
}

func (s *DefaultBookingService) Cancel(ctx context.Context, id, cancelledBy, reason string) error {
	s.bookingLocks.Lock(id)
	defer s.bookingLocks.Unlock(id)

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.Status == models.StatusCancelled {
		return ErrAlreadyCancelled
	}
	entry, err := Transition(b, models.StatusCancelled, cancelledBy, reason, nil, "")
	if err != nil {
		return err
	}
	if err := s.bookings.UpdateStatus(ctx, id, models.StatusCancelled, nil, ""); err != nil {
		return err
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Error("history entry not recorded", zap.String("id", id), zap.Error(err))
	}
	return nil
}

// Availability reports whether the slot is free and returns the conflicting
// bookings when it is not.
func (s *DefaultBookingService) Availability(ctx context.Context, roomID string, start, end time.Time) (bool, []models.Booking, error) {
	overlaps, err := s.bookings.FindOverlapping(ctx, roomID, start, end)
	if err != nil {
		return false, nil, err
	}
	return len(overlaps) == 0, overlaps, nil
}

func (s *DefaultBookingService) History(ctx context.Context, bookingID string) ([]models.BookingHistory, error) {
	return s.history.FindByBooking(ctx, bookingID)
}

func (s *DefaultBookingService) ByRoom(ctx context.Context, roomID, status string) ([]models.Booking, error) {
	return s.bookings.FindByRoom(ctx, roomID, status)
}

func (s *DefaultBookingService) ByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.bookings.FindByUser(ctx, userID)
}

func (s *DefaultBookingService) ByMinPriority(ctx context.Context, minPriority int) ([]models.Booking, error) {
	return s.bookings.FindByMinPriority(ctx, minPriority)
}

func (s *DefaultBookingService) All(ctx context.Context) ([]models.Booking, error) {
	return s.bookings.FindAll(ctx)
}

// roomForBooking fetches room metadata for the decision engine. A missing
// room is not fatal; the engine treats it as unknown.
func (s *DefaultBookingService) roomForBooking(ctx context.Context, roomID string) *models.Room {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		s.logger.Debug("room metadata unavailable", zap.String("room", roomID), zap.Error(err))
		return nil
	}
	return room
}

func statusForAction(a decision.Action) string {
	switch a {
	case decision.ActionAutoApprove:
		return models.StatusApproved
	case decision.ActionAutoReject:
		return models.StatusRejected
	default:
		return models.StatusPending
	}
}
