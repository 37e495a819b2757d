package booking

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"roomdesk/database/repository"
	"roomdesk/models"
	"roomdesk/utils"
)

// Scoring weights for alternate-room ranking. They sum to 1.0.
const (
	weightEquipment = 0.45
	weightCapacity  = 0.20
	weightProximity = 0.15
	weightApproval  = 0.10
	weightTime      = 0.10
)

const (
	slotProbeStep   = 30 * time.Minute
	slotHorizon     = 7 * 24 * time.Hour
	maxNextSlots    = 5
	maxCandidates   = 50
	maxAlternates   = 5
	defaultApproval = 0.5 // approval rate when a room has no decided history
)

// equipmentTypeWeights rank how much each equipment class matters when
// comparing rooms.
var equipmentTypeWeights = map[string]float64{
	models.EquipmentVideo:     1.0,
	models.EquipmentDisplay:   0.9,
	models.EquipmentAudio:     0.7,
	models.EquipmentInput:     0.6,
	models.EquipmentControl:   0.5,
	models.EquipmentFurniture: 0.4,
}

const unknownEquipmentWeight = 0.5

// SuggestionService proposes alternatives when a requested slot is taken:
// later slots in the same room plus ranked substitute rooms.
type SuggestionService interface {
	Suggest(ctx context.Context, roomID string, start, end time.Time, desiredCapacity int) (*models.SuggestionResult, error)
}

type DefaultSuggestionService struct {
	bookings repository.BookingRepository
	rooms    repository.RoomRepository
	logger   *zap.Logger
}

func NewSuggestionService(bookings repository.BookingRepository, rooms repository.RoomRepository) *DefaultSuggestionService {
	return &DefaultSuggestionService{
		bookings: bookings,
		rooms:    rooms,
		logger:   utils.GetLogger().Named("suggest"),
	}
}

func (s *DefaultSuggestionService) Suggest(ctx context.Context, roomID string, start, end time.Time, desiredCapacity int) (*models.SuggestionResult, error) {
	requested, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	duration := end.Sub(start)

	nextSlots, err := s.nextFreeSlots(ctx, roomID, start.Add(slotProbeStep), start.Add(slotHorizon), duration)
	if err != nil {
		return nil, err
	}

	if desiredCapacity < 1 {
		desiredCapacity = 1
	}
	candidates, err := s.rooms.FindByMinCapacity(ctx, desiredCapacity)
	if err != nil {
		return nil, err
	}

	ranked := make([]models.AlternativeCandidate, 0, len(candidates))
	evaluated := 0
	for _, candidate := range candidates {
		if candidate.ID == roomID {
			continue
		}
		if evaluated >= maxCandidates {
			break
		}
		evaluated++
		ranked = append(ranked, s.scoreCandidate(ctx, requested, candidate, start, duration, desiredCapacity))
	}

	// Stable keeps discovery order for ties.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > maxAlternates {
		ranked = ranked[:maxAlternates]
	}

	return &models.SuggestionResult{NextSlots: nextSlots, AlternateRooms: ranked}, nil
}

func (s *DefaultSuggestionService) scoreCandidate(ctx context.Context, requested *models.Room, candidate models.Room, start time.Time, duration time.Duration, desiredCapacity int) models.AlternativeCandidate {
	equipScore := equipmentSimilarity(requested, &candidate)
	capScore := capacityCloseness(candidate.Capacity, desiredCapacity)
	proxScore := proximity(requestedLocation(requested), candidate.Location)
	approvalRate := s.approvalRate(ctx, candidate.ID)

	availableFrom, timeScore := s.earliestAvailability(ctx, candidate.ID, start, duration)

	score := weightEquipment*equipScore +
		weightCapacity*capScore +
		weightProximity*proxScore +
		weightApproval*approvalRate +
		weightTime*timeScore

	return models.AlternativeCandidate{
		Room:           candidate,
		AvailableFrom:  availableFrom,
		Score:          score,
		EquipmentScore: equipScore,
		CapacityScore:  capScore,
		ProximityScore: proxScore,
		ApprovalRate:   approvalRate,
		TimeScore:      timeScore,
	}
}

// nextFreeSlots probes the room in 30-minute steps and collects up to five
// free slots of the requested duration.
func (s *DefaultSuggestionService) nextFreeSlots(ctx context.Context, roomID string, from, horizon time.Time, duration time.Duration) ([]models.TimeSlot, error) {
	slots := make([]models.TimeSlot, 0, maxNextSlots)
	for probe := from; !probe.After(horizon) && len(slots) < maxNextSlots; probe = probe.Add(slotProbeStep) {
		overlaps, err := s.bookings.FindOverlapping(ctx, roomID, probe, probe.Add(duration))
		if err != nil {
			return nil, err
		}
		if len(overlaps) == 0 {
			slots = append(slots, models.TimeSlot{Start: probe, End: probe.Add(duration)})
		}
	}
	return slots, nil
}

// earliestAvailability finds the first free slot within the horizon and maps
// its distance from the requested start into a decaying score.
func (s *DefaultSuggestionService) earliestAvailability(ctx context.Context, roomID string, start time.Time, duration time.Duration) (*time.Time, float64) {
	horizon := start.Add(slotHorizon)
	for probe := start; !probe.After(horizon); probe = probe.Add(slotProbeStep) {
		overlaps, err := s.bookings.FindOverlapping(ctx, roomID, probe, probe.Add(duration))
		if err != nil {
			s.logger.Debug("availability probe failed", zap.String("room", roomID), zap.Error(err))
			return nil, 0
		}
		if len(overlaps) == 0 {
			free := probe
			hoursUntil := probe.Sub(start).Hours()
			return &free, 1.0 / (1.0 + hoursUntil)
		}
	}
	return nil, 0
}

// approvalRate is the fraction of the room's decided bookings that ended
// approved. Bookings still pending or new carry no signal and are ignored.
func (s *DefaultSuggestionService) approvalRate(ctx context.Context, roomID string) float64 {
	past, err := s.bookings.FindByRoom(ctx, roomID, "")
	if err != nil {
		return defaultApproval
	}
	decided, approved := 0, 0
	for _, b := range past {
		if !models.IsTerminal(b.Status) {
			continue
		}
		decided++
		if b.Status == models.StatusApproved {
			approved++
		}
	}
	if decided == 0 {
		return defaultApproval
	}
	return float64(approved) / float64(decided)
}

// equipmentSimilarity is a weighted Jaccard measure over equipment names,
// where each item contributes its type weight. Zero when neither room has
// equipment.
func equipmentSimilarity(a, b *models.Room) float64 {
	weightsA := equipmentWeights(a)
	weightsB := equipmentWeights(b)
	if len(weightsA) == 0 && len(weightsB) == 0 {
		return 0
	}

	union := make(map[string]bool, len(weightsA)+len(weightsB))
	for name := range weightsA {
		union[name] = true
	}
	for name := range weightsB {
		union[name] = true
	}

	var numerator, denominator float64
	for name := range union {
		wa, inA := weightsA[name]
		wb, inB := weightsB[name]
		switch {
		case inA && inB:
			numerator += min64(wa, wb)
			denominator += max64(wa, wb)
		case inA:
			denominator += wa
		default:
			denominator += wb
		}
	}
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

func equipmentWeights(room *models.Room) map[string]float64 {
	if room == nil {
		return nil
	}
	weights := make(map[string]float64, len(room.Equipment))
	for _, eq := range room.Equipment {
		w, ok := equipmentTypeWeights[eq.Type]
		if !ok {
			w = unknownEquipmentWeight
		}
		weights[strings.ToLower(eq.Name)] = w
	}
	return weights
}

// capacityCloseness is 1.0 for an exact match and decays as the mismatch
// grows relative to the request.
func capacityCloseness(capacity, desired int) float64 {
	diff := capacity - desired
	if diff < 0 {
		diff = -diff
	}
	base := desired
	if base < 1 {
		base = 1
	}
	return 1.0 / (1.0 + float64(diff)/float64(base))
}

// proximity compares locations textually: identical, substring, then shared
// word overlap.
func proximity(a, b string) float64 {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return 0
	}
	if la == lb {
		return 1.0
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return 0.8
	}

	wordsA := make(map[string]bool)
	for _, w := range strings.Fields(la) {
		wordsA[w] = true
	}
	shared := 0
	for _, w := range strings.Fields(lb) {
		if wordsA[w] {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}
	return min64(0.7, 0.2+0.1*float64(shared))
}

func requestedLocation(room *models.Room) string {
	if room == nil {
		return ""
	}
	return room.Location
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
