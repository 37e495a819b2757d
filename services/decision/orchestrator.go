package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"roomdesk/models"
	"roomdesk/utils"
)

const (
	doubtConfidenceCap     = 0.45
	unclearConfidenceCap   = 0.5
	executiveConfidenceCap = 0.6

	decisionCacheTTL = 30 * time.Minute
)

// Orchestrator produces a Decision for every booking request, no matter what.
// It prefers the advisory service when one is configured, validates whatever
// comes back, and degrades to the rule engine on any failure. Post-processing
// overrides (purpose second opinion, executive rooms) apply to both paths.
type Orchestrator struct {
	advisor Advisor
	rules   Strategy
	cache   *redis.Client
	logger  *zap.Logger
}

// NewOrchestrator wires the advisory client and the fallback strategy. cache
// may be nil, in which case decision snapshots are not recorded.
func NewOrchestrator(advisor Advisor, rules Strategy, cache *redis.Client) *Orchestrator {
	return &Orchestrator{
		advisor: advisor,
		rules:   rules,
		cache:   cache,
		logger:  utils.GetLogger().Named("decision"),
	}
}

// AdvisoryConfigured reports whether the advisory path is live; used by audit
// writers to attribute decisions to LLM or RULES.
func (o *Orchestrator) AdvisoryConfigured() bool {
	return o.advisor != nil && o.advisor.IsConfigured()
}

// Decide evaluates the booking and never returns an error. Advisory failures
// of any kind route to the rule engine.
func (o *Orchestrator) Decide(ctx context.Context, booking *models.Booking, overlaps []models.Booking, room *models.Room) Decision {
	d := o.primaryDecision(ctx, booking, overlaps)
	o.applyPurposeOpinion(ctx, booking, &d)
	o.applyExecutiveOverride(room, &d)
	o.snapshot(ctx, booking, d)
	return d
}

func (o *Orchestrator) primaryDecision(ctx context.Context, booking *models.Booking, overlaps []models.Booking) Decision {
	if booking == nil || o.advisor == nil || !o.advisor.IsConfigured() {
		return o.rules.Evaluate(booking, overlaps, nil)
	}

	raw, err := o.advisor.Ask(ctx, BuildPrompt(booking, overlaps))
	if err != nil {
		o.logger.Warn("advisory call failed, using rules", zap.Error(err))
		return o.rules.Evaluate(booking, overlaps, nil)
	}

	d, err := ParseAdvisory(raw)
	if err != nil {
		o.logger.Warn("advisory reply unusable, using rules",
			zap.Error(err), zap.String("raw", raw))
		d = o.rules.Evaluate(booking, overlaps, nil)
		d.RawAdvisory = raw
		return d
	}

	// A stated doubt may never silently auto-approve.
	if d.Action == ActionAutoApprove && rationaleExpressesDoubt(d.Rationale) {
		d.Action = ActionRequiresReview
		capConfidence(&d, doubtConfidenceCap)
	}
	return d
}

// applyPurposeOpinion runs an independent clarity check on the purpose. When
// it flags the purpose, the rationale is extended and confidence capped; the
// action is left alone.
func (o *Orchestrator) applyPurposeOpinion(ctx context.Context, booking *models.Booking, d *Decision) {
	if booking == nil {
		return
	}
	clear, suggestions := o.ValidatePurpose(ctx, booking.Purpose)
	if clear {
		return
	}
	note := "Purpose unclear"
	if len(suggestions) > 0 {
		note += ": " + strings.Join(suggestions, "; ")
	}
	d.Rationale = append(d.Rationale, note)
	d.Suggestions = append(d.Suggestions, suggestions...)
	capConfidence(d, unclearConfidenceCap)
}

// ValidatePurpose reports whether the purpose reads as a clear justification,
// with improvement suggestions when it does not. Purposes under 10 characters
// are always unclear. Beyond that the advisory service gets a say when
// configured; otherwise a length-and-shape heuristic decides.
func (o *Orchestrator) ValidatePurpose(ctx context.Context, purpose string) (bool, []string) {
	trimmed := strings.TrimSpace(purpose)
	if len(trimmed) < minPurposeLength {
		if trimmed == "" {
			return false, []string{"Purpose is missing"}
		}
		return false, []string{"Purpose appears too brief to be clear"}
	}

	if o.advisor != nil && o.advisor.IsConfigured() {
		if clear, suggestions, ok := o.advisoryPurposeOpinion(ctx, trimmed); ok {
			return clear, suggestions
		}
	}

	if len(trimmed) >= minJustifiedPurpose && !mostlyPunctuation.MatchString(trimmed) {
		return true, nil
	}
	return false, []string{"Add specifics: agenda, expected outcomes, or attendees"}
}

func (o *Orchestrator) advisoryPurposeOpinion(ctx context.Context, purpose string) (clear bool, suggestions []string, ok bool) {
	prompt := fmt.Sprintf(
		`Evaluate the clarity and relevance of this meeting purpose. Return ONLY JSON: { "clear": true|false, "suggestions": [..] }. Purpose: %q`,
		strings.ReplaceAll(purpose, "\n", " "))

	raw, err := o.advisor.Ask(ctx, prompt)
	if err != nil {
		o.logger.Debug("purpose check advisory call failed", zap.Error(err))
		return false, nil, false
	}

	var reply struct {
		Clear       bool     `json:"clear"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(StripFences(raw)), &reply); err != nil {
		o.logger.Debug("purpose check reply unusable", zap.Error(err))
		return false, nil, false
	}
	return reply.Clear, reply.Suggestions, true
}

// applyExecutiveOverride forces executive and special-handling rooms through
// manual review. It always wins, regardless of which path decided.
func (o *Orchestrator) applyExecutiveOverride(room *models.Room, d *Decision) {
	if room == nil || !RoomRequiresAdminApproval(room) {
		return
	}
	if d.Action != ActionAutoApprove {
		return
	}
	d.Action = ActionRequiresReview
	d.Rationale = append(d.Rationale, "Executive room requires admin approval")
	capConfidence(d, executiveConfidenceCap)
}

// RoomRequiresAdminApproval reports whether a room is exempt from automatic
// approval.
func RoomRequiresAdminApproval(room *models.Room) bool {
	if room == nil {
		return false
	}
	return strings.Contains(strings.ToLower(room.Name), "executive") ||
		strings.EqualFold(room.Status, models.RoomStatusSpecial)
}

// snapshot records the decision in redis for short-lived introspection by the
// approvals dashboard. Failures are logged and ignored.
func (o *Orchestrator) snapshot(ctx context.Context, booking *models.Booking, d Decision) {
	if o.cache == nil || booking == nil || booking.ID == "" {
		return
	}
	payload, err := json.Marshal(d)
	if err != nil {
		return
	}
	key := "decision:" + booking.ID
	if err := o.cache.Set(ctx, key, payload, decisionCacheTTL).Err(); err != nil {
		o.logger.Debug("decision snapshot not cached", zap.String("booking", booking.ID), zap.Error(err))
	}
}

// CachedDecision fetches a previously snapshotted decision, if any.
func (o *Orchestrator) CachedDecision(ctx context.Context, bookingID string) (*Decision, bool) {
	if o.cache == nil || bookingID == "" {
		return nil, false
	}
	raw, err := o.cache.Get(ctx, "decision:"+bookingID).Result()
	if err != nil {
		return nil, false
	}
	var d Decision
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, false
	}
	return &d, true
}
