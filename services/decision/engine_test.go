package decision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomdesk/models"
)

func bookingAt(hour int, duration time.Duration, purpose string) *models.Booking {
	start := time.Date(2026, 9, 15, hour, 0, 0, 0, time.Local)
	return &models.Booking{
		ID:             "b-1",
		RoomID:         "r-1",
		UserID:         "u-1",
		StartTime:      start,
		EndTime:        start.Add(duration),
		Purpose:        purpose,
		AttendeesCount: 4,
	}
}

func TestEngineAutoApprovesClearInHoursBooking(t *testing.T) {
	engine := NewEngine()
	b := bookingAt(10, time.Hour, "Team sync on project 5")

	d := engine.Evaluate(b, nil, nil)

	assert.Equal(t, ActionAutoApprove, d.Action)
	assert.InDelta(t, 0.85, d.Confidence, 1e-9)
	assert.Equal(t, models.SourceRules, d.Source)
	assert.NotEmpty(t, d.Rationale)
}

func TestEngineRejectsInvertedTimeRange(t *testing.T) {
	engine := NewEngine()
	b := bookingAt(10, time.Hour, "Quarterly planning session")
	b.EndTime = b.StartTime.Add(-time.Hour)

	d := engine.Evaluate(b, nil, nil)

	assert.Equal(t, ActionAutoReject, d.Action)
	assert.GreaterOrEqual(t, d.Confidence, 0.95)
}

func TestEngineRejectsZeroDuration(t *testing.T) {
	engine := NewEngine()
	b := bookingAt(10, time.Hour, "Quarterly planning session")
	b.EndTime = b.StartTime

	d := engine.Evaluate(b, nil, nil)
	assert.Equal(t, ActionAutoReject, d.Action)
}

func TestEngineRejectsOverlongBooking(t *testing.T) {
	engine := NewEngine()
	b := bookingAt(8, 9*time.Hour, "All day planning workshop for the platform team")

	d := engine.Evaluate(b, nil, nil)

	assert.Equal(t, ActionAutoReject, d.Action)
	assert.GreaterOrEqual(t, d.Confidence, 0.9)
}

func TestEnginePurposeGate(t *testing.T) {
	engine := NewEngine()
	cases := []string{
		"",
		"short",
		"meeting",
		"MEETING",
		"Sync",
		"call",
		"!!!???***",
	}
	for _, purpose := range cases {
		b := bookingAt(10, time.Hour, purpose)
		d := engine.Evaluate(b, nil, nil)

		assert.Equal(t, ActionRequiresReview, d.Action, "purpose %q", purpose)
		if purpose != "" {
			assert.InDelta(t, 0.35, d.Confidence, 1e-9, "purpose %q", purpose)
		}
		assert.Len(t, d.Suggestions, 3, "purpose %q", purpose)
	}
}

func TestEngineNilBooking(t *testing.T) {
	d := NewEngine().Evaluate(nil, nil, nil)
	assert.Equal(t, ActionRequiresReview, d.Action)
	assert.Zero(t, d.Confidence)
}

func TestEngineOverlapMonotonicity(t *testing.T) {
	engine := NewEngine()
	b := bookingAt(10, time.Hour, "Design review for the checkout flow")
	other := *bookingAt(10, time.Hour, "Another meeting in the same slot")

	none := engine.Evaluate(b, nil, nil)
	one := engine.Evaluate(b, []models.Booking{other}, nil)
	two := engine.Evaluate(b, []models.Booking{other, other}, nil)

	assert.Greater(t, none.Confidence, one.Confidence)
	assert.Greater(t, one.Confidence, two.Confidence)
}

func TestEngineNeverAutoApprovesWithConflicts(t *testing.T) {
	engine := NewEngine()
	b := bookingAt(10, time.Hour, "Design review for the checkout flow")
	other := *bookingAt(10, time.Hour, "Existing booking")

	d := engine.Evaluate(b, []models.Booking{other}, nil)
	require.NotEqual(t, ActionAutoApprove, d.Action)
}

func TestEngineOutOfHoursLowersConfidence(t *testing.T) {
	engine := NewEngine()
	inHours := engine.Evaluate(bookingAt(10, time.Hour, "Design review for the checkout flow"), nil, nil)
	outOfHours := engine.Evaluate(bookingAt(20, time.Hour, "Design review for the checkout flow"), nil, nil)

	assert.Greater(t, inHours.Confidence, outOfHours.Confidence)
	// 0.5 - 0.10 + 0.2 = 0.6 -> below the approve threshold
	assert.Equal(t, ActionRequiresReview, outOfHours.Action)
}

func TestEngineConfidenceClamped(t *testing.T) {
	engine := NewEngine()
	b := bookingAt(10, time.Hour, "Design review for the checkout flow")
	other := *bookingAt(10, time.Hour, "Existing booking")

	d := engine.Evaluate(b, []models.Booking{other, other, other}, nil)
	assert.GreaterOrEqual(t, d.Confidence, 0.0)
	assert.LessOrEqual(t, d.Confidence, 1.0)
}
