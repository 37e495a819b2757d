package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"roomdesk/database/repository"
	"roomdesk/models"
	"roomdesk/services/booking"
	"roomdesk/services/decision"
)

// Services are wired in main before routes are registered.
var (
	BookingService    booking.Service
	ApprovalService   booking.ApprovalService
	SuggestionService booking.SuggestionService
	Decider           *decision.Orchestrator
)

type bookingRequest struct {
	RoomID             string   `json:"roomId"`
	UserID             string   `json:"userId"`
	StartTime          string   `json:"startTime"`
	EndTime            string   `json:"endTime"`
	Purpose            string   `json:"purpose"`
	AttendeesCount     int      `json:"attendeesCount"`
	Priority           int      `json:"priority"`
	RequiredFacilities []string `json:"requiredFacilities"`
	Notes              string   `json:"notes"`
}

func (r *bookingRequest) toModel() (*models.Booking, error) {
	start, err := parseTime(r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseTime(r.EndTime)
	if err != nil {
		return nil, err
	}
	return &models.Booking{
		RoomID:             r.RoomID,
		UserID:             r.UserID,
		StartTime:          start,
		EndTime:            end,
		Purpose:            r.Purpose,
		AttendeesCount:     r.AttendeesCount,
		Priority:           r.Priority,
		RequiredFacilities: r.RequiredFacilities,
		Notes:              r.Notes,
	}, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

// CreateBooking submits a booking request for automated decisioning.
func CreateBooking(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	b, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time format, expected RFC3339", "details": err.Error()})
		return
	}

	created, d, err := BookingService.Create(c.Request.Context(), b)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": created, "decision": d})
}

// ValidateBooking runs the decision pipeline without persisting anything.
func ValidateBooking(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	b, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time format, expected RFC3339", "details": err.Error()})
		return
	}

	d, err := BookingService.Validate(c.Request.Context(), b)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"decision": d})
}

// GetBooking returns one booking by id.
func GetBooking(c *gin.Context) {
	b, err := BookingService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookings returns all bookings.
func ListBookings(c *gin.Context) {
	bookings, err := BookingService.All(c.Request.Context())
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ListUserBookings returns bookings submitted by a user.
func ListUserBookings(c *gin.Context) {
	bookings, err := BookingService.ByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ListPriorityBookings returns bookings at or above a minimum priority.
func ListPriorityBookings(c *gin.Context) {
	min, err := strconv.Atoi(c.DefaultQuery("min", "4"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min must be an integer"})
		return
	}
	bookings, err := BookingService.ByMinPriority(c.Request.Context(), min)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CheckAvailability reports whether a slot is free and any conflicts.
func CheckAvailability(c *gin.Context) {
	roomID := c.Query("roomId")
	start, err1 := parseTime(c.Query("start"))
	end, err2 := parseTime(c.Query("end"))
	if roomID == "" || err1 != nil || err2 != nil || start.IsZero() || end.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomId, start and end (RFC3339) are required"})
		return
	}

	free, conflicts, err := BookingService.Availability(c.Request.Context(), roomID, start, end)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": free, "conflicts": conflicts})
}

// SuggestAlternatives returns later slots in the same room plus ranked
// substitute rooms.
func SuggestAlternatives(c *gin.Context) {
	roomID := c.Query("roomId")
	start, err1 := parseTime(c.Query("start"))
	end, err2 := parseTime(c.Query("end"))
	if roomID == "" || err1 != nil || err2 != nil || start.IsZero() || end.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomId, start and end (RFC3339) are required"})
		return
	}
	capacity, err := strconv.Atoi(c.DefaultQuery("capacity", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "capacity must be an integer"})
		return
	}

	result, err := SuggestionService.Suggest(c.Request.Context(), roomID, start, end, capacity)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetBookingHistory returns the status transition audit trail, newest first.
func GetBookingHistory(c *gin.Context) {
	entries, err := BookingService.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetDecision returns the decision for an existing booking: the cached
// snapshot when one is still live, otherwise a fresh evaluation.
func GetDecision(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if d, ok := Decider.CachedDecision(ctx, id); ok {
		c.JSON(http.StatusOK, gin.H{"decision": d, "cached": true})
		return
	}

	b, err := BookingService.GetByID(ctx, id)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	_, conflicts, err := BookingService.Availability(ctx, b.RoomID, b.StartTime, b.EndTime)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	room, err := RoomRepo.GetByID(ctx, b.RoomID)
	if err != nil {
		room = nil
	}
	d := Decider.Decide(ctx, b, conflicts, room)
	c.JSON(http.StatusOK, gin.H{"decision": d, "cached": false})
}

type statusRequest struct {
	Status    string `json:"status"`
	ChangedBy string `json:"changedBy"`
	Reason    string `json:"reason"`
}

// UpdateBookingStatus applies a manual status transition.
func UpdateBookingStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if req.Status == "" || req.ChangedBy == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status and changedBy are required"})
		return
	}

	b, err := BookingService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.ChangedBy, req.Reason)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBooking cancels a booking.
func CancelBooking(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if req.ChangedBy == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "changedBy is required"})
		return
	}

	if err := BookingService.Cancel(c.Request.Context(), c.Param("id"), req.ChangedBy, req.Reason); err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.StatusCancelled})
}

type verdictRequest struct {
	Actor string `json:"actor"`
}

// ApproveBooking records a manual approval.
func ApproveBooking(c *gin.Context) {
	actor := verdictActor(c)
	b, err := ApprovalService.Approve(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// RejectBooking records a manual rejection.
func RejectBooking(c *gin.Context) {
	actor := verdictActor(c)
	b, err := ApprovalService.Reject(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func verdictActor(c *gin.Context) string {
	var req verdictRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.Actor != "" {
		return req.Actor
	}
	return "admin"
}

// ListPendingBookings re-evaluates and returns all pending bookings.
func ListPendingBookings(c *gin.Context) {
	pending, err := ApprovalService.PendingSweep(c.Request.Context())
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

// GetApprovalLogs returns the evaluation and verdict records for a booking.
func GetApprovalLogs(c *gin.Context) {
	logs, err := ApprovalService.Logs(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, booking.ErrMissingFields),
		errors.Is(err, booking.ErrInvalidTimeRange),
		errors.Is(err, booking.ErrStartTimePast),
		errors.Is(err, booking.ErrInvalidAttendees):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrSlotTaken),
		errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
	}
}
