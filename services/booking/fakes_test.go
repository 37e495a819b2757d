package booking

import (
	"context"
	"sync"
	"time"

	"roomdesk/database/repository"
	"roomdesk/models"
)

// memBookingRepo is an in-memory BookingRepository. checkDelay widens the
// window between the overlap read and the write, getDelay between the status
// read and the write, to make races observable.
type memBookingRepo struct {
	mu         sync.Mutex
	bookings   map[string]*models.Booking
	history    []models.BookingHistory
	checkDelay time.Duration
	getDelay   time.Duration
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *memBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *memBookingRepo) CreateWithHistory(ctx context.Context, b *models.Booking, h *models.BookingHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *b
	r.bookings[b.ID] = &clone
	r.history = append(r.history, *h)
	return nil
}

func (r *memBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	b, ok := r.bookings[id]
	if !ok {
		r.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	clone := *b
	r.mu.Unlock()
	if r.getDelay > 0 {
		time.Sleep(r.getDelay)
	}
	return &clone, nil
}

func (r *memBookingRepo) UpdateStatus(ctx context.Context, id, status string, confidence *float64, rationale string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	if confidence != nil {
		b.DecisionConfidence = confidence
		b.DecisionRationale = rationale
	}
	return nil
}

func (r *memBookingRepo) UpdateDecision(ctx context.Context, id string, confidence float64, rationale string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.DecisionConfidence = &confidence
	b.DecisionRationale = rationale
	return nil
}

func (r *memBookingRepo) FindOverlapping(ctx context.Context, roomID string, start, end time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.RoomID != roomID || b.Status == models.StatusCancelled {
			continue
		}
		if b.StartTime.Before(end) && b.EndTime.After(start) {
			out = append(out, *b)
		}
	}
	r.mu.Unlock()
	if r.checkDelay > 0 {
		time.Sleep(r.checkDelay)
	}
	return out, nil
}

func (r *memBookingRepo) FindByRoom(ctx context.Context, roomID, status string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.RoomID != roomID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *memBookingRepo) FindByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) FindPending(ctx context.Context) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Status == models.StatusPending {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) FindByMinPriority(ctx context.Context, minPriority int) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Priority >= minPriority {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) FindAll(ctx context.Context) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (r *memBookingRepo) statusCount(status string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.bookings {
		if b.Status == status {
			n++
		}
	}
	return n
}

// memRoomRepo is an in-memory RoomRepository.
type memRoomRepo struct {
	rooms map[string]*models.Room
}

func newMemRoomRepo(rooms ...*models.Room) *memRoomRepo {
	r := &memRoomRepo{rooms: make(map[string]*models.Room)}
	for _, room := range rooms {
		r.rooms[room.ID] = room
	}
	return r
}

func (r *memRoomRepo) GetByID(ctx context.Context, id string) (*models.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return room, nil
}

func (r *memRoomRepo) FindAll(ctx context.Context) ([]models.Room, error) {
	var out []models.Room
	for _, room := range r.rooms {
		out = append(out, *room)
	}
	return out, nil
}

func (r *memRoomRepo) FindByMinCapacity(ctx context.Context, minCapacity int) ([]models.Room, error) {
	var out []models.Room
	for _, room := range r.rooms {
		if room.Capacity >= minCapacity {
			out = append(out, *room)
		}
	}
	return out, nil
}

// memHistoryRepo is an in-memory BookingHistoryRepository.
type memHistoryRepo struct {
	mu      sync.Mutex
	entries []models.BookingHistory
}

func (r *memHistoryRepo) Create(ctx context.Context, entry *models.BookingHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memHistoryRepo) FindByBooking(ctx context.Context, bookingID string) ([]models.BookingHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.BookingHistory
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].BookingID == bookingID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

// memApprovalRepo is an in-memory ApprovalLogRepository.
type memApprovalRepo struct {
	mu      sync.Mutex
	entries []models.ApprovalLog
}

func (r *memApprovalRepo) Create(ctx context.Context, entry *models.ApprovalLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memApprovalRepo) FindByBooking(ctx context.Context, bookingID string) ([]models.ApprovalLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ApprovalLog
	for _, e := range r.entries {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}
