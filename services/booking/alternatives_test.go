package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomdesk/models"
)

func standardEquipment() []models.Equipment {
	return []models.Equipment{
		{ID: "e-1", Name: "Conference Camera", Type: models.EquipmentVideo},
		{ID: "e-2", Name: "4K Display", Type: models.EquipmentDisplay},
		{ID: "e-3", Name: "Ceiling Microphone", Type: models.EquipmentAudio},
	}
}

func TestScoringWeightsSumToOne(t *testing.T) {
	sum := weightEquipment + weightCapacity + weightProximity + weightApproval + weightTime
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestSuggestIdenticalCandidateScoresOne(t *testing.T) {
	requested := &models.Room{
		ID: "r-1", Name: "Meeting Room 1", Location: "Building A Floor 3",
		Capacity: 8, Equipment: standardEquipment(),
	}
	twin := &models.Room{
		ID: "r-2", Name: "Meeting Room 2", Location: "Building A Floor 3",
		Capacity: 8, Equipment: standardEquipment(),
	}

	repo := newMemBookingRepo()
	// full approved history for the twin
	start, end := futureSlot(1, 10, time.Hour)
	repo.bookings["hist-1"] = &models.Booking{
		ID: "hist-1", RoomID: "r-2", Status: models.StatusApproved,
		StartTime: start.AddDate(0, 0, -30), EndTime: end.AddDate(0, 0, -30),
	}

	svc := NewSuggestionService(repo, newMemRoomRepo(requested, twin))

	result, err := svc.Suggest(context.Background(), "r-1", start, end, 8)
	require.NoError(t, err)
	require.Len(t, result.AlternateRooms, 1)

	top := result.AlternateRooms[0]
	assert.Equal(t, "r-2", top.Room.ID)
	assert.InDelta(t, 1.0, top.Score, 1e-9)
	assert.InDelta(t, 1.0, top.EquipmentScore, 1e-9)
	assert.InDelta(t, 1.0, top.CapacityScore, 1e-9)
	assert.InDelta(t, 1.0, top.ProximityScore, 1e-9)
	assert.InDelta(t, 1.0, top.ApprovalRate, 1e-9)
	assert.InDelta(t, 1.0, top.TimeScore, 1e-9)
	require.NotNil(t, top.AvailableFrom)
	assert.True(t, top.AvailableFrom.Equal(start))
}

func TestSuggestRanksCandidatesDescending(t *testing.T) {
	requested := &models.Room{
		ID: "r-1", Name: "Meeting Room 1", Location: "Building A Floor 3",
		Capacity: 8, Equipment: standardEquipment(),
	}
	twin := &models.Room{
		ID: "r-2", Name: "Meeting Room 2", Location: "Building A Floor 3",
		Capacity: 8, Equipment: standardEquipment(),
	}
	farAndBare := &models.Room{
		ID: "r-3", Name: "Annex Room", Location: "Warehouse District",
		Capacity: 40,
	}

	repo := newMemBookingRepo()
	svc := NewSuggestionService(repo, newMemRoomRepo(requested, twin, farAndBare))

	start, end := futureSlot(1, 10, time.Hour)
	result, err := svc.Suggest(context.Background(), "r-1", start, end, 8)
	require.NoError(t, err)
	require.Len(t, result.AlternateRooms, 2)

	for i := 1; i < len(result.AlternateRooms); i++ {
		assert.GreaterOrEqual(t, result.AlternateRooms[i-1].Score, result.AlternateRooms[i].Score)
	}
	assert.Equal(t, "r-2", result.AlternateRooms[0].Room.ID)
	assert.NotNil(t, result.AlternateRooms[0].AvailableFrom)
}

func TestSuggestExcludesOriginalAndTooSmallRooms(t *testing.T) {
	requested := &models.Room{ID: "r-1", Name: "Meeting Room 1", Location: "A", Capacity: 8}
	tiny := &models.Room{ID: "r-tiny", Name: "Focus Pod", Location: "A", Capacity: 2}
	big := &models.Room{ID: "r-big", Name: "Meeting Room 9", Location: "A", Capacity: 10}

	svc := NewSuggestionService(newMemBookingRepo(), newMemRoomRepo(requested, tiny, big))

	start, end := futureSlot(1, 10, time.Hour)
	result, err := svc.Suggest(context.Background(), "r-1", start, end, 6)
	require.NoError(t, err)

	require.Len(t, result.AlternateRooms, 1)
	assert.Equal(t, "r-big", result.AlternateRooms[0].Room.ID)
}

func TestSuggestNextSlotsSkipBusyIntervals(t *testing.T) {
	requested := &models.Room{ID: "r-1", Name: "Meeting Room 1", Location: "A", Capacity: 8}
	repo := newMemBookingRepo()

	start, end := futureSlot(1, 10, time.Hour)
	// the room is busy for the two hours after the requested slot
	repo.bookings["busy"] = &models.Booking{
		ID: "busy", RoomID: "r-1", Status: models.StatusApproved,
		StartTime: start, EndTime: end.Add(time.Hour),
	}

	svc := NewSuggestionService(repo, newMemRoomRepo(requested))
	result, err := svc.Suggest(context.Background(), "r-1", start, end, 4)
	require.NoError(t, err)

	require.Len(t, result.NextSlots, maxNextSlots)
	first := result.NextSlots[0]
	assert.True(t, first.Start.Equal(end.Add(time.Hour)), "first free slot starts when the busy block ends")
	assert.Equal(t, time.Hour, first.End.Sub(first.Start))
	for _, slot := range result.NextSlots {
		assert.False(t, slot.Start.Before(start.Add(slotProbeStep)))
	}
}

func TestSuggestUnknownRoom(t *testing.T) {
	svc := NewSuggestionService(newMemBookingRepo(), newMemRoomRepo())
	start, end := futureSlot(1, 10, time.Hour)
	_, err := svc.Suggest(context.Background(), "missing", start, end, 4)
	assert.Error(t, err)
}

func TestEquipmentSimilarity(t *testing.T) {
	a := &models.Room{Equipment: standardEquipment()}
	b := &models.Room{Equipment: standardEquipment()}
	assert.InDelta(t, 1.0, equipmentSimilarity(a, b), 1e-9)

	empty := &models.Room{}
	assert.Zero(t, equipmentSimilarity(empty, empty))

	partial := &models.Room{Equipment: []models.Equipment{
		{Name: "Conference Camera", Type: models.EquipmentVideo},
	}}
	// shared camera (1.0) over camera + display (0.9) + microphone (0.7)
	assert.InDelta(t, 1.0/2.6, equipmentSimilarity(a, partial), 1e-9)

	disjoint := &models.Room{Equipment: []models.Equipment{
		{Name: "Whiteboard", Type: models.EquipmentFurniture},
	}}
	assert.Zero(t, equipmentSimilarity(partial, disjoint))
}

func TestCapacityCloseness(t *testing.T) {
	assert.InDelta(t, 1.0, capacityCloseness(8, 8), 1e-9)
	assert.InDelta(t, 1.0/(1.0+4.0/8.0), capacityCloseness(12, 8), 1e-9)
	assert.InDelta(t, 1.0/(1.0+4.0/8.0), capacityCloseness(4, 8), 1e-9)
	assert.Greater(t, capacityCloseness(9, 8), capacityCloseness(20, 8))
}

func TestProximity(t *testing.T) {
	assert.InDelta(t, 1.0, proximity("Building A Floor 3", "building a floor 3"), 1e-9)
	assert.InDelta(t, 0.8, proximity("Building A", "Building A Floor 3"), 1e-9)
	// shares "building" and "3"
	assert.InDelta(t, 0.4, proximity("Building B Floor 3", "Building A Wing 3"), 1e-9)
	assert.Zero(t, proximity("Building A", "Warehouse District"))
	assert.Zero(t, proximity("", "Building A"))
}

func TestApprovalRateCountsOnlyDecidedBookings(t *testing.T) {
	repo := newMemBookingRepo()
	repo.bookings["a"] = &models.Booking{ID: "a", RoomID: "r-1", Status: models.StatusApproved}
	repo.bookings["b"] = &models.Booking{ID: "b", RoomID: "r-1", Status: models.StatusRejected}
	repo.bookings["c"] = &models.Booking{ID: "c", RoomID: "r-1", Status: models.StatusPending}
	repo.bookings["d"] = &models.Booking{ID: "d", RoomID: "r-1", Status: models.StatusCancelled}

	svc := NewSuggestionService(repo, newMemRoomRepo())
	// approved + rejected + cancelled are decided; pending is not
	assert.InDelta(t, 1.0/3.0, svc.approvalRate(context.Background(), "r-1"), 1e-9)

	assert.InDelta(t, defaultApproval, svc.approvalRate(context.Background(), "r-empty"), 1e-9)
}
