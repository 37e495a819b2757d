package models

import "time"

// Decision sources recorded on approval logs.
const (
	SourceLLM    = "LLM"
	SourceRules  = "RULES"
	SourceManual = "MANUAL"
)

// Approval log actions.
const (
	ApprovalActionAutoApprove     = "AUTO_APPROVE"
	ApprovalActionAutoReject      = "AUTO_REJECT"
	ApprovalActionReviewRequested = "REVIEW_REQUESTED"
	ApprovalActionManualApprove   = "MANUAL_APPROVE"
	ApprovalActionManualReject    = "MANUAL_REJECT"
)

// ApprovalLog is an immutable record of one evaluation pass or manual verdict
// over a booking. Entries are created once and never mutated.
type ApprovalLog struct {
	ID         string    `bson:"id" json:"id"`
	BookingID  string    `bson:"booking_id" json:"bookingId"`
	Actor      string    `bson:"actor" json:"actor"`   // "AI", "admin", "SYSTEM", ...
	Action     string    `bson:"action" json:"action"` // AUTO_APPROVE, MANUAL_REJECT, REVIEW_REQUESTED, ...
	Confidence float64   `bson:"confidence" json:"confidence"`
	Rationale  string    `bson:"rationale" json:"rationale"`
	Source     string    `bson:"source" json:"source"` // LLM, RULES or MANUAL
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

// BookingHistory records a single status transition. Exactly one entry is
// produced per transition.
type BookingHistory struct {
	ID             string    `bson:"id" json:"id"`
	BookingID      string    `bson:"booking_id" json:"bookingId"`
	PreviousStatus string    `bson:"previous_status" json:"previousStatus"`
	NewStatus      string    `bson:"new_status" json:"newStatus"`
	ChangedBy      string    `bson:"changed_by" json:"changedBy"` // Acting identity, passed in explicitly
	Reason         string    `bson:"reason,omitempty" json:"reason,omitempty"`
	Confidence     *float64  `bson:"confidence,omitempty" json:"confidence,omitempty"`
	Rationale      string    `bson:"rationale,omitempty" json:"rationale,omitempty"`
	ChangedAt      time.Time `bson:"changed_at" json:"changedAt"`
}
