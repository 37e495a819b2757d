package models

// Reminder kinds.
const (
	ReminderKindMeeting    = "REMINDER"
	ReminderKindFacilities = "FACILITIES"
)

// ReminderPayload is the task body enqueued for scheduled notifications.
// Delivery channels are outside the engine; the worker hands this to the
// notification boundary as-is.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	ToUserID  string `json:"toUserId,omitempty"`
	Kind      string `json:"kind"` // REMINDER or FACILITIES
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	FireAt    string `json:"fireAt"` // RFC3339, informational
}
