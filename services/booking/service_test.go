package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomdesk/models"
	"roomdesk/services/decision"
)

func futureSlot(daysAhead, hour int, duration time.Duration) (time.Time, time.Time) {
	base := time.Now().AddDate(0, 0, daysAhead)
	start := time.Date(base.Year(), base.Month(), base.Day(), hour, 0, 0, 0, time.Local)
	return start, start.Add(duration)
}

func newTestService(repo *memBookingRepo, rooms *memRoomRepo) *DefaultBookingService {
	decider := decision.NewOrchestrator(nil, decision.NewEngine(), nil)
	return NewBookingService(repo, rooms, &memHistoryRepo{}, decider, nil, NewKeyedMutex())
}

func validRequest(roomID string) *models.Booking {
	start, end := futureSlot(2, 10, time.Hour)
	return &models.Booking{
		RoomID:         roomID,
		UserID:         "u-1",
		StartTime:      start,
		EndTime:        end,
		Purpose:        "Quarterly planning session with the design team",
		AttendeesCount: 4,
	}
}

func TestCreateAutoApprovesClearBooking(t *testing.T) {
	repo := newMemBookingRepo()
	rooms := newMemRoomRepo(&models.Room{ID: "r-1", Name: "Meeting Room 1", Capacity: 8, Status: models.RoomStatusNormal})
	svc := newTestService(repo, rooms)

	b, d, err := svc.Create(context.Background(), validRequest("r-1"))
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, b.Status)
	assert.Equal(t, decision.ActionAutoApprove, d.Action)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, 3, b.Priority)
	require.NotNil(t, b.DecisionConfidence)
	assert.InDelta(t, 0.85, *b.DecisionConfidence, 1e-9)

	// exactly one audit entry for the initial transition
	stored, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status)
	require.Len(t, repo.history, 1)
	assert.Equal(t, models.StatusNew, repo.history[0].PreviousStatus)
	assert.Equal(t, models.StatusApproved, repo.history[0].NewStatus)
	assert.Equal(t, "SYSTEM", repo.history[0].ChangedBy)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newMemBookingRepo(), newMemRoomRepo())
	ctx := context.Background()

	b := validRequest("r-1")
	b.RoomID = ""
	_, _, err := svc.Create(ctx, b)
	assert.ErrorIs(t, err, ErrMissingFields)

	b = validRequest("r-1")
	b.EndTime = b.StartTime
	_, _, err = svc.Create(ctx, b)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	b = validRequest("r-1")
	b.StartTime = time.Now().Add(-2 * time.Hour)
	b.EndTime = time.Now().Add(-time.Hour)
	_, _, err = svc.Create(ctx, b)
	assert.ErrorIs(t, err, ErrStartTimePast)

	b = validRequest("r-1")
	b.AttendeesCount = 0
	_, _, err = svc.Create(ctx, b)
	assert.ErrorIs(t, err, ErrInvalidAttendees)
}

func TestCreateWithConflictGoesToPending(t *testing.T) {
	repo := newMemBookingRepo()
	rooms := newMemRoomRepo(&models.Room{ID: "r-1", Name: "Meeting Room 1", Capacity: 8})
	svc := newTestService(repo, rooms)
	ctx := context.Background()

	first, _, err := svc.Create(ctx, validRequest("r-1"))
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, first.Status)

	second, d, err := svc.Create(ctx, validRequest("r-1"))
	require.NoError(t, err)
	assert.Equal(t, decision.ActionRequiresReview, d.Action)
	assert.Equal(t, models.StatusPending, second.Status)
}

func TestConcurrentCreateCannotDoubleBook(t *testing.T) {
	repo := newMemBookingRepo()
	repo.checkDelay = 20 * time.Millisecond
	rooms := newMemRoomRepo(&models.Room{ID: "r-1", Name: "Meeting Room 1", Capacity: 8})
	svc := newTestService(repo, rooms)

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = svc.Create(context.Background(), validRequest("r-1"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, repo.statusCount(models.StatusApproved),
		"only one booking may be approved for the same slot")
}

func TestCreateExecutiveRoomForcedToPending(t *testing.T) {
	repo := newMemBookingRepo()
	rooms := newMemRoomRepo(&models.Room{ID: "r-exec", Name: "Executive Boardroom", Capacity: 12, Status: models.RoomStatusNormal})
	svc := newTestService(repo, rooms)

	b, _, err := svc.Create(context.Background(), validRequest("r-exec"))
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, b.Status)
	assert.NotEqual(t, models.StatusApproved, b.Status)
}

func TestUpdateStatusAndCancel(t *testing.T) {
	repo := newMemBookingRepo()
	rooms := newMemRoomRepo(&models.Room{ID: "r-exec", Name: "Executive Boardroom", Capacity: 12})
	svc := newTestService(repo, rooms)
	ctx := context.Background()

	created, _, err := svc.Create(ctx, validRequest("r-exec"))
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, created.Status)

	updated, err := svc.UpdateStatus(ctx, created.ID, models.StatusApproved, "alice", "checked with facilities")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)

	// approved bookings may still be cancelled
	require.NoError(t, svc.Cancel(ctx, created.ID, "alice", "meeting moved"))

	// but not twice
	err = svc.Cancel(ctx, created.ID, "alice", "again")
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	repo := newMemBookingRepo()
	rooms := newMemRoomRepo(&models.Room{ID: "r-1", Name: "Meeting Room 1", Capacity: 8})
	svc := newTestService(repo, rooms)
	ctx := context.Background()

	created, _, err := svc.Create(ctx, validRequest("r-1"))
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, created.Status)

	_, err = svc.UpdateStatus(ctx, created.ID, models.StatusPending, "alice", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAvailability(t *testing.T) {
	repo := newMemBookingRepo()
	rooms := newMemRoomRepo(&models.Room{ID: "r-1", Name: "Meeting Room 1", Capacity: 8})
	svc := newTestService(repo, rooms)
	ctx := context.Background()

	req := validRequest("r-1")
	_, _, err := svc.Create(ctx, req)
	require.NoError(t, err)

	free, conflicts, err := svc.Availability(ctx, "r-1", req.StartTime, req.EndTime)
	require.NoError(t, err)
	assert.False(t, free)
	assert.Len(t, conflicts, 1)

	laterStart := req.EndTime.Add(time.Hour)
	free, conflicts, err = svc.Availability(ctx, "r-1", laterStart, laterStart.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, free)
	assert.Empty(t, conflicts)
}

func TestValidateDoesNotPersist(t *testing.T) {
	repo := newMemBookingRepo()
	rooms := newMemRoomRepo(&models.Room{ID: "r-1", Name: "Meeting Room 1", Capacity: 8})
	svc := newTestService(repo, rooms)

	d, err := svc.Validate(context.Background(), validRequest("r-1"))
	require.NoError(t, err)

	assert.Equal(t, decision.ActionAutoApprove, d.Action)
	assert.Empty(t, repo.bookings)
}
