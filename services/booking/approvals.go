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
	"roomdesk/utils"
)

// ApprovalService handles manual verdicts on pending bookings and the pending
// review sweep. Every verdict and every sweep evaluation leaves an approval
// log entry.
type ApprovalService interface {
	Approve(ctx context.Context, bookingID, actor string) (*models.Booking, error)
	Reject(ctx context.Context, bookingID, actor string) (*models.Booking, error)
	// PendingSweep re-evaluates every pending booking, refreshes its decision
	// annotations, and snapshots each evaluation in the approval log.
	PendingSweep(ctx context.Context) ([]models.Booking, error)
	Logs(ctx context.Context, bookingID string) ([]models.ApprovalLog, error)
}

type DefaultApprovalService struct {
	bookings repository.BookingRepository
	approval repository.ApprovalLogRepository
	history  repository.BookingHistoryRepository
	decider  *decision.Orchestrator
	logger   *zap.Logger

	// locks is the per-booking mutex shared with the booking service; a
	// verdict and a concurrent cancel on the same booking must serialize.
	locks *KeyedMutex
}

func NewApprovalService(
	bookings repository.BookingRepository,
	approval repository.ApprovalLogRepository,
	history repository.BookingHistoryRepository,
	decider *decision.Orchestrator,
	bookingLocks *KeyedMutex,
) *DefaultApprovalService {
	return &DefaultApprovalService{
		bookings: bookings,
		approval: approval,
		history:  history,
		decider:  decider,
		logger:   utils.GetLogger().Named("approvals"),
		locks:    bookingLocks,
	}
}

func (s *DefaultApprovalService) Approve(ctx context.Context, bookingID, actor string) (*models.Booking, error) {
	return s.verdict(ctx, bookingID, actor, models.StatusApproved,
		models.ApprovalActionManualApprove, "Manually approved by admin")
}

func (s *DefaultApprovalService) Reject(ctx context.Context, bookingID, actor string) (*models.Booking, error) {
	return s.verdict(ctx, bookingID, actor, models.StatusRejected,
		models.ApprovalActionManualReject, "Manually rejected by admin")
}

func (s *DefaultApprovalService) verdict(ctx context.Context, bookingID, actor, status, action, rationale string) (*models.Booking, error) {
	s.locks.Lock(bookingID)
	defer s.locks.Unlock(bookingID)

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	confidence := 1.0
	entry, err := Transition(b, status, actor, rationale, &confidence, rationale)
	if err != nil {
		return nil, err
	}
	if err := s.bookings.UpdateStatus(ctx, bookingID, status, &confidence, rationale); err != nil {
		return nil, err
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Error("history entry not recorded", zap.String("id", bookingID), zap.Error(err))
	}

	s.record(ctx, &models.ApprovalLog{
		ID:         uuid.NewString(),
		BookingID:  bookingID,
		Actor:      actor,
		Action:     action,
		Confidence: confidence,
		Rationale:  rationale,
		Source:     models.SourceManual,
		CreatedAt:  time.Now(),
	})

	b.DecisionConfidence = &confidence
	b.DecisionRationale = rationale
	return b, nil
}

func (s *DefaultApprovalService) PendingSweep(ctx context.Context) ([]models.Booking, error) {
	pending, err := s.bookings.FindPending(ctx)
	if err != nil {
		return nil, err
	}

	source := models.SourceRules
	if s.decider.AdvisoryConfigured() {
		source = models.SourceLLM
	}

	for i := range pending {
		b := &pending[i]
		overlaps, err := s.bookings.FindOverlapping(ctx, b.RoomID, b.StartTime, b.EndTime)
		if err != nil {
			s.logger.Warn("overlap query failed during sweep", zap.String("id", b.ID), zap.Error(err))
			continue
		}
		d := s.decider.Decide(ctx, b, overlaps, nil)

		confidence := d.Confidence
		rationale := strings.Join(d.Rationale, "; ")
		b.DecisionConfidence = &confidence
		b.DecisionRationale = rationale
		if err := s.bookings.UpdateDecision(ctx, b.ID, confidence, rationale); err != nil {
			s.logger.Warn("decision annotations not updated", zap.String("id", b.ID), zap.Error(err))
		}

		s.record(ctx, &models.ApprovalLog{
			ID:         uuid.NewString(),
			BookingID:  b.ID,
			Actor:      "AI",
			Action:     approvalActionFor(d.Action),
			Confidence: confidence,
			Rationale:  rationale,
			Source:     source,
			CreatedAt:  time.Now(),
		})
	}
	return pending, nil
}

func (s *DefaultApprovalService) Logs(ctx context.Context, bookingID string) ([]models.ApprovalLog, error) {
	return s.approval.FindByBooking(ctx, bookingID)
}

func (s *DefaultApprovalService) record(ctx context.Context, entry *models.ApprovalLog) {
	if err := s.approval.Create(ctx, entry); err != nil {
		s.logger.Error("approval log entry not recorded",
			zap.String("booking", entry.BookingID), zap.Error(err))
	}
}

func approvalActionFor(a decision.Action) string {
	switch a {
	case decision.ActionAutoApprove:
		return models.ApprovalActionAutoApprove
	case decision.ActionAutoReject:
		return models.ApprovalActionAutoReject
	default:
		return models.ApprovalActionReviewRequested
	}
}
