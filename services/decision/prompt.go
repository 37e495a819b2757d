package decision

import (
	"encoding/json"
	"time"

	"roomdesk/models"
)

const promptInstructions = `Analyze this booking request (including purpose, attendees, priority and requested facilities) and provide a decision. Return ONLY a JSON object (no markdown, no explanation) with the following structure:
{
  "action": one of [AUTO_APPROVE, AUTO_REJECT, REQUIRES_REVIEW],
  "confidence": number between 0 and 1,
  "rationale": array of strings explaining the decision,
  "suggestions": optional array of strings suggesting clearer purpose text or remediation
}

Booking details:
`

type promptOverlap struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type promptBooking struct {
	RoomID             string    `json:"roomId"`
	UserID             string    `json:"userId"`
	Start              time.Time `json:"start"`
	End                time.Time `json:"end"`
	Purpose            string    `json:"purpose"`
	Attendees          int       `json:"attendees"`
	Priority           int       `json:"priority"`
	RequiredFacilities []string  `json:"requiredFacilities"`
}

// BuildPrompt renders the structured advisory prompt: fixed instructions plus
// the booking attributes and overlap intervals as JSON.
func BuildPrompt(booking *models.Booking, overlaps []models.Booking) string {
	payload := struct {
		Booking  promptBooking   `json:"booking"`
		Overlaps []promptOverlap `json:"overlaps"`
	}{
		Booking: promptBooking{
			RoomID:             booking.RoomID,
			UserID:             booking.UserID,
			Start:              booking.StartTime,
			End:                booking.EndTime,
			Purpose:            booking.Purpose,
			Attendees:          booking.AttendeesCount,
			Priority:           booking.Priority,
			RequiredFacilities: booking.RequiredFacilities,
		},
		Overlaps: make([]promptOverlap, 0, len(overlaps)),
	}
	for _, o := range overlaps {
		payload.Overlaps = append(payload.Overlaps, promptOverlap{Start: o.StartTime, End: o.EndTime})
	}

	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		// Marshalling plain structs cannot realistically fail; keep the
		// instructions usable regardless.
		return promptInstructions
	}
	return promptInstructions + string(body)
}
