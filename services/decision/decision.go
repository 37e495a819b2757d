package decision

// Action is the automated verdict for a booking request.
type Action string

const (
	ActionAutoApprove    Action = "AUTO_APPROVE"
	ActionAutoReject     Action = "AUTO_REJECT"
	ActionRequiresReview Action = "REQUIRES_REVIEW"
)

// ValidAction reports whether s names one of the three known actions.
func ValidAction(s string) bool {
	switch Action(s) {
	case ActionAutoApprove, ActionAutoReject, ActionRequiresReview:
		return true
	}
	return false
}

// Decision is the immutable outcome of one evaluation. Rationale is never
// empty except for the degenerate missing-booking case.
type Decision struct {
	Action      Action   `json:"action"`
	Confidence  float64  `json:"confidence"` // 0.0 - 1.0
	Rationale   []string `json:"rationale"`
	Suggestions []string `json:"suggestions,omitempty"`
	Source      string   `json:"source"` // LLM or RULES
	// RawAdvisory preserves the advisory service's raw text for audit when the
	// advisory path was attempted, even if its output was discarded.
	RawAdvisory string `json:"-"`
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func capConfidence(d *Decision, max float64) {
	if d.Confidence > max {
		d.Confidence = max
	}
}
