package decision

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"roomdesk/models"
)

// Strategy is a deterministic decision rule set. Two strategies exist: the
// confidence-scoring Engine (the wired fallback) and the room-fit oriented
// RoomFitStrategy, usable standalone for audits or A/B comparison.
type Strategy interface {
	Evaluate(booking *models.Booking, overlaps []models.Booking, room *models.Room) Decision
}

const (
	minPurposeLength = 10
	maxDuration      = 8 * time.Hour
	businessOpen     = 8 * 60  // minutes from midnight
	businessClose    = 18 * 60 // minutes from midnight

	approveThreshold = 0.75
	rejectThreshold  = 0.35
)

// mostlyPunctuation matches purposes made of nothing but symbols/underscores.
var mostlyPunctuation = regexp.MustCompile(`^[\W_]{5,}$`)

var genericPurposes = map[string]bool{
	"meeting": true,
	"sync":    true,
	"call":    true,
}

var purposeSuggestions = []string{
	"Provide a short agenda or expected outcomes (2-3 sentences)",
	"Mention key attendees and why their presence is required",
	"If this is a client meeting, mention the client/company and meeting objective",
}

// Engine is the guaranteed rule-based fallback: a pure function of the booking
// and its overlaps. It ignores room metadata.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Evaluate applies the rules in fixed precedence order and returns at the
// first matching rule.
func (e *Engine) Evaluate(booking *models.Booking, overlaps []models.Booking, _ *models.Room) Decision {
	if booking == nil {
		return Decision{
			Action:      ActionRequiresReview,
			Confidence:  0.0,
			Rationale:   []string{"Missing booking data"},
			Suggestions: []string{"Please provide booking details including purpose, attendees and priority"},
			Source:      models.SourceRules,
		}
	}

	if purposeUnclear(booking.Purpose) {
		return Decision{
			Action:      ActionRequiresReview,
			Confidence:  0.35,
			Rationale:   []string{"Insufficient or unclear purpose"},
			Suggestions: purposeSuggestions,
			Source:      models.SourceRules,
		}
	}

	duration := booking.Duration()
	if duration <= 0 {
		return Decision{
			Action:      ActionAutoReject,
			Confidence:  0.95,
			Rationale:   []string{"Invalid time range"},
			Suggestions: []string{"Please select valid start and end times"},
			Source:      models.SourceRules,
		}
	}

	if duration > maxDuration {
		return Decision{
			Action:      ActionAutoReject,
			Confidence:  0.9,
			Rationale:   []string{"Booking duration exceeds 8 hours"},
			Suggestions: []string{"Split the booking into shorter sessions or request special approval"},
			Source:      models.SourceRules,
		}
	}

	var reasons []string
	score := 0.5 // baseline neutral confidence

	if withinBusinessHours(booking.StartTime, booking.EndTime) {
		reasons = append(reasons, "Within business hours")
		score += 0.15
	} else {
		reasons = append(reasons, "Outside business hours")
		score -= 0.10
	}

	conflicts := len(overlaps)
	switch {
	case conflicts == 1:
		reasons = append(reasons, "1 overlapping booking(s) detected")
		score -= 0.3
	case conflicts > 1:
		reasons = append(reasons, fmt.Sprintf("%d overlapping booking(s) detected", conflicts))
		score -= 0.6
	default:
		reasons = append(reasons, "No overlapping bookings")
		score += 0.2
	}

	confidence := clamp01(score)

	if confidence >= approveThreshold && conflicts == 0 {
		reasons = append(reasons, "High confidence and no conflicts -> auto-approve")
		return Decision{
			Action:     ActionAutoApprove,
			Confidence: confidence,
			Rationale:  reasons,
			Source:     models.SourceRules,
		}
	}

	if confidence < rejectThreshold {
		reasons = append(reasons, "Low confidence -> auto-reject")
		return Decision{
			Action:      ActionAutoReject,
			Confidence:  confidence,
			Rationale:   reasons,
			Suggestions: []string{"Provide a clearer purpose and expected outcomes"},
			Source:      models.SourceRules,
		}
	}

	reasons = append(reasons, "Moderate confidence -> requires human review")
	return Decision{
		Action:      ActionRequiresReview,
		Confidence:  confidence,
		Rationale:   reasons,
		Suggestions: []string{"Consider adding a short agenda, expected outcomes, and attendees list"},
		Source:      models.SourceRules,
	}
}

func purposeUnclear(purpose string) bool {
	trimmed := strings.TrimSpace(purpose)
	if trimmed == "" || len(trimmed) < minPurposeLength {
		return true
	}
	if mostlyPunctuation.MatchString(trimmed) {
		return true
	}
	return genericPurposes[strings.ToLower(trimmed)]
}

func withinBusinessHours(start, end time.Time) bool {
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()
	return startMin >= businessOpen && endMin <= businessClose && startMin <= endMin
}
