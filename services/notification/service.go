package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"roomdesk/config"
	"roomdesk/models"
	"roomdesk/utils"
)

const TypeReminderSend = "reminder:send"

// Default reminder offsets before meeting start, in minutes.
var ReminderOffsets = []int{30, 60, 1440}

// FacilitiesContacts receives facilities notifications. Delivery channels are
// outside this service; the worker logs and forwards the payload.
var FacilitiesContacts = []string{"facilities@company.local", "it-support@company.local"}

// Scheduler enqueues reminders for later delivery.
type Scheduler interface {
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
	// ScheduleBookingReminders enqueues the standard reminder set for a newly
	// created booking: user reminders at the configured offsets plus a
	// facilities notification when the booking needs AV, video, or catering.
	ScheduleBookingReminders(ctx context.Context, booking *models.Booking, room *models.Room) error
	Close() error
}

// AsynqScheduler backs the Scheduler with an asynq queue on redis.
type AsynqScheduler struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewAsynqScheduler() *AsynqScheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	})
	return &AsynqScheduler{client: client, logger: utils.GetLogger().Named("notification")}
}

func (s *AsynqScheduler) ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	payload.FireAt = fireAt.Format(time.RFC3339)
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal reminder payload: %w", err)
	}
	task := asynq.NewTask(TypeReminderSend, body)
	if _, err := s.client.EnqueueContext(ctx, task, asynq.ProcessAt(fireAt)); err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}
	return nil
}

func (s *AsynqScheduler) ScheduleBookingReminders(ctx context.Context, booking *models.Booking, room *models.Room) error {
	now := time.Now()

	for _, offset := range ReminderOffsets {
		fireAt := booking.StartTime.Add(-time.Duration(offset) * time.Minute)
		if !fireAt.After(now) {
			continue
		}
		payload := models.ReminderPayload{
			BookingID: booking.ID,
			ToUserID:  booking.UserID,
			Kind:      models.ReminderKindMeeting,
			Subject:   "Upcoming meeting reminder",
			Body:      meetingReminderBody(booking, room),
		}
		if err := s.ScheduleReminder(ctx, payload, fireAt); err != nil {
			s.logger.Warn("reminder not scheduled",
				zap.String("booking", booking.ID), zap.Int("offsetMin", offset), zap.Error(err))
		}
	}

	needs := DetectFacilitiesNeeds(booking, room)
	if len(needs) == 0 {
		return nil
	}
	fireAt := booking.StartTime.Add(-time.Hour)
	if fireAt.Before(now) {
		fireAt = now.Add(time.Minute)
	}
	body := facilitiesBody(booking, room, needs)
	for _, contact := range FacilitiesContacts {
		payload := models.ReminderPayload{
			BookingID: booking.ID,
			ToUserID:  contact,
			Kind:      models.ReminderKindFacilities,
			Subject:   "Facilities support required for upcoming meeting",
			Body:      body,
		}
		if err := s.ScheduleReminder(ctx, payload, fireAt); err != nil {
			s.logger.Warn("facilities notification not scheduled",
				zap.String("booking", booking.ID), zap.String("to", contact), zap.Error(err))
		}
	}
	return nil
}

func (s *AsynqScheduler) Close() error {
	return s.client.Close()
}

// DetectFacilitiesNeeds inspects the booking's requested facilities and the
// room's equipment for services the facilities team must set up.
func DetectFacilitiesNeeds(booking *models.Booking, room *models.Room) []string {
	var needsAV, needsVideo, needsCatering bool

	for _, req := range booking.RequiredFacilities {
		r := strings.ToLower(req)
		if strings.Contains(r, "av") || strings.Contains(r, "audio") || strings.Contains(r, "microphone") {
			needsAV = true
		}
		if strings.Contains(r, "video") || strings.Contains(r, "zoom") || strings.Contains(r, "conference") {
			needsVideo = true
		}
		if strings.Contains(r, "cater") {
			needsCatering = true
		}
	}
	if room != nil {
		for _, eq := range room.Equipment {
			name := strings.ToLower(eq.Name)
			if strings.Contains(name, "projector") || strings.Contains(name, "microphone") || strings.Contains(name, "pa") {
				needsAV = true
			}
			if strings.Contains(name, "camera") || strings.Contains(name, "video") {
				needsVideo = true
			}
		}
	}

	var needs []string
	if needsAV {
		needs = append(needs, "AV setup")
	}
	if needsVideo {
		needs = append(needs, "Video Conferencing setup")
	}
	if needsCatering {
		needs = append(needs, "Catering")
	}
	return needs
}

func meetingReminderBody(booking *models.Booking, room *models.Room) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Meeting: %s\n", booking.Purpose)
	if room != nil {
		fmt.Fprintf(&b, "Room: %s (Location: %s)\n", room.Name, room.Location)
	}
	fmt.Fprintf(&b, "Starts: %s\n", booking.StartTime.Format(time.RFC3339))
	return b.String()
}

func facilitiesBody(booking *models.Booking, room *models.Room, needs []string) string {
	roomName := booking.RoomID
	if room != nil {
		roomName = room.Name
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Booking: %s\nRoom: %s\nStarts: %s\n",
		booking.Purpose, roomName, booking.StartTime.Format(time.RFC3339))
	for _, n := range needs {
		fmt.Fprintf(&b, "Needs: %s\n", n)
	}
	return b.String()
}
