package models

import "time"

// Booking statuses. A booking is never deleted; cancellation is a status.
const (
	StatusNew       = "NEW"
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// Booking represents a meeting-room reservation request and its lifecycle state.
type Booking struct {
	ID                 string    `bson:"id" json:"id"`                          // Unique booking identifier (UUID)
	RoomID             string    `bson:"room_id" json:"roomId"`                 // Target room
	UserID             string    `bson:"user_id" json:"userId"`                 // Requesting user
	StartTime          time.Time `bson:"start_time" json:"startTime"`           // Requested start
	EndTime            time.Time `bson:"end_time" json:"endTime"`               // Requested end (start < end)
	Status             string    `bson:"status" json:"status"`                  // One of the Status* constants
	Purpose            string    `bson:"purpose" json:"purpose"`                // Free-text meeting purpose
	AttendeesCount     int       `bson:"attendees_count" json:"attendeesCount"` // Expected headcount
	RequiredFacilities []string  `bson:"required_facilities,omitempty" json:"requiredFacilities,omitempty"`
	Priority           int       `bson:"priority" json:"priority"` // 1-5, where 5 is highest
	Notes              string    `bson:"notes,omitempty" json:"notes,omitempty"`
	DecisionConfidence *float64  `bson:"decision_confidence,omitempty" json:"decisionConfidence,omitempty"`
	DecisionRationale  string    `bson:"decision_rationale,omitempty" json:"decisionRationale,omitempty"`
	CreatedAt          time.Time `bson:"created_at" json:"createdAt"`
}

// Duration returns the requested meeting length.
func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// IsTerminal reports whether a status is a decided end state.
func IsTerminal(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}
