package models

import "time"

// TimeSlot is a candidate free interval for the originally requested room.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AlternativeCandidate is a substitute room ranked by a weighted
// multi-criterion score. Sub-scores are kept for explainability; candidates
// are transient and never persisted.
type AlternativeCandidate struct {
	Room           Room       `json:"room"`
	AvailableFrom  *time.Time `json:"availableFrom"` // Earliest free slot start, nil if none within the horizon
	Score          float64    `json:"score"`         // Combined weighted score, 0.0-1.0
	EquipmentScore float64    `json:"equipmentScore"`
	CapacityScore  float64    `json:"capacityScore"`
	ProximityScore float64    `json:"proximityScore"`
	ApprovalRate   float64    `json:"approvalRate"`
	TimeScore      float64    `json:"timeScore"`
}

// SuggestionResult bundles same-room next slots with ranked alternate rooms.
type SuggestionResult struct {
	NextSlots      []TimeSlot             `json:"nextSlots"`
	AlternateRooms []AlternativeCandidate `json:"alternateRooms"`
}
