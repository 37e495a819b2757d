package decision

import (
	"fmt"
	"strings"

	"roomdesk/models"
)

const (
	minJustifiedPurpose = 15
	underutilizedRatio  = 0.4
	underutilizedSlack  = 5
)

// RoomFitStrategy weighs the booking against the room it asks for: capacity
// fit, purpose compatibility with the room archetype, and priority. Overlap
// and justification checks run first so the room rules only see plausible
// requests.
type RoomFitStrategy struct{}

func NewRoomFitStrategy() *RoomFitStrategy { return &RoomFitStrategy{} }

func (s *RoomFitStrategy) Evaluate(booking *models.Booking, overlaps []models.Booking, room *models.Room) Decision {
	if booking == nil {
		return Decision{
			Action:     ActionRequiresReview,
			Confidence: 0.0,
			Rationale:  []string{"Missing booking data"},
			Source:     models.SourceRules,
		}
	}

	if len(overlaps) > 0 {
		return Decision{
			Action:     ActionRequiresReview,
			Confidence: 0.7,
			Rationale:  []string{"There are overlapping bookings for this time slot"},
			Source:     models.SourceRules,
		}
	}

	purpose := strings.ToLower(strings.TrimSpace(booking.Purpose))
	if len(purpose) < minJustifiedPurpose || genericPurposes[purpose] {
		return Decision{
			Action:     ActionRequiresReview,
			Confidence: 0.4,
			Rationale:  []string{"Insufficient justification for approval"},
			Source:     models.SourceRules,
		}
	}

	if room != nil && room.Capacity > 0 && booking.AttendeesCount > 0 {
		req, cap := booking.AttendeesCount, room.Capacity
		utilization := float64(req) / float64(cap)
		if utilization < underutilizedRatio && cap-req >= underutilizedSlack {
			return Decision{
				Action:     ActionAutoReject,
				Confidence: 0.9,
				Rationale:  []string{fmt.Sprintf("Requested capacity significantly underutilizes the room (%d of %d)", req, cap)},
				Source:     models.SourceRules,
			}
		}
		if req > cap {
			return Decision{
				Action:     ActionAutoReject,
				Confidence: 0.95,
				Rationale:  []string{"Requested attendees exceed room capacity"},
				Source:     models.SourceRules,
			}
		}
	}

	if room != nil && purpose != "" && !purposeFitsRoom(room.Name, purpose) {
		return Decision{
			Action:     ActionAutoReject,
			Confidence: 0.9,
			Rationale:  []string{fmt.Sprintf("Purpose seems incompatible with room type: %q", room.Name)},
			Source:     models.SourceRules,
		}
	}

	startMin := booking.StartTime.Hour()*60 + booking.StartTime.Minute()
	if startMin < businessOpen || startMin > businessClose {
		return Decision{
			Action:     ActionRequiresReview,
			Confidence: 0.5,
			Rationale:  []string{"Booking is outside preferred business hours"},
			Source:     models.SourceRules,
		}
	}

	if booking.Priority >= 4 {
		return Decision{
			Action:     ActionAutoApprove,
			Confidence: 0.85,
			Rationale:  []string{fmt.Sprintf("High priority booking (priority %d)", booking.Priority)},
			Source:     models.SourceRules,
		}
	}

	return Decision{
		Action:     ActionRequiresReview,
		Confidence: 0.5,
		Rationale:  []string{"No automatic decision rules matched"},
		Source:     models.SourceRules,
	}
}

// purposeFitsRoom infers a room archetype from its name and checks the purpose
// for keywords that archetype expects. Rooms matching no archetype are
// permissive except for explicit large-audience purposes.
func purposeFitsRoom(roomName, purpose string) bool {
	name := strings.ToLower(roomName)
	containsAny := func(s string, words ...string) bool {
		for _, w := range words {
			if strings.Contains(s, w) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny(name, "auditor", "theatre"):
		return containsAny(purpose, "presentation", "townhall", "all-hands", "keynote")
	case containsAny(name, "board", "executive"):
		return containsAny(purpose, "board", "executive", "client", "strategy")
	case containsAny(name, "training", "studio"):
		return containsAny(purpose, "training", "workshop", "class", "session")
	case containsAny(name, "focus", "pod", "huddle", "small"):
		return containsAny(purpose, "one-on-one", "huddle", "sync", "interview")
	default:
		return !containsAny(purpose, "townhall", "keynote", "all-hands")
	}
}
