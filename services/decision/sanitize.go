package decision

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"roomdesk/models"
)

var fenceRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*")

// StripFences removes markdown code fences the advisory service tends to wrap
// its JSON in, despite being told not to.
func StripFences(raw string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
}

type advisoryReply struct {
	Action      string          `json:"action"`
	Confidence  json.RawMessage `json:"confidence"`
	Rationale   []string        `json:"rationale"`
	Suggestions []string        `json:"suggestions"`
}

// ParseAdvisory validates untrusted advisory output: it must be a JSON object
// with a known action and a confidence coercible to a number. Anything else is
// ErrAdvisoryMalformed and the caller falls back to rules.
func ParseAdvisory(raw string) (Decision, error) {
	clean := StripFences(raw)

	var reply advisoryReply
	if err := json.Unmarshal([]byte(clean), &reply); err != nil {
		return Decision{}, fmt.Errorf("parse advisory reply: %v: %w", err, ErrAdvisoryMalformed)
	}
	if !ValidAction(reply.Action) {
		return Decision{}, fmt.Errorf("unknown action %q: %w", reply.Action, ErrAdvisoryMalformed)
	}
	confidence, err := coerceNumber(reply.Confidence)
	if err != nil {
		return Decision{}, fmt.Errorf("bad confidence: %v: %w", err, ErrAdvisoryMalformed)
	}

	return Decision{
		Action:      Action(reply.Action),
		Confidence:  clamp01(confidence),
		Rationale:   reply.Rationale,
		Suggestions: reply.Suggestions,
		Source:      models.SourceLLM,
		RawAdvisory: raw,
	}, nil
}

// coerceNumber accepts a JSON number or a numeric string.
func coerceNumber(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("missing")
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	return 0, fmt.Errorf("not a number: %s", string(raw))
}

// Phrases that signal the advisory itself doubts the purpose. A stated doubt
// may never silently auto-approve.
var doubtPhrases = []string{"unclear", "insufficient", "not clear", "vague"}

func rationaleExpressesDoubt(rationale []string) bool {
	for _, r := range rationale {
		lower := strings.ToLower(r)
		for _, phrase := range doubtPhrases {
			if strings.Contains(lower, phrase) {
				return true
			}
		}
	}
	return false
}
