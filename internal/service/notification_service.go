package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinic-assist-be/internal/model"
	"clinic-assist-be/internal/pkg/logger"
	"clinic-assist-be/internal/repository"
	"clinic-assist-be/pkg/events"
	pktNats "clinic-assist-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

// NotificationService turns bus events into staff inbox entries. Bookings
// and handoffs fan out to every staff user; anything else on the bus is
// ignored here.
type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	s.logger.Info("NotificationService", fmt.Sprintf("Processing event: %s", event.EventType()), map[string]interface{}{"type": event.EventType()})

	var title, message string
	payload := event.Payload()

	switch event.EventType() {
	case events.TypeAppointmentBooked:
		title = "New appointment"
		message = fmt.Sprintf("%v booked %v at %v (ref %v)",
			payload["patient_name"], payload["date"], payload["time"], payload["reference"])
	case events.TypeConversationHandoff:
		title = "Visitor waiting on WhatsApp"
		message = fmt.Sprintf("Chat session %v asked for a human", payload["session_key"])
	default:
		// Not a staff-facing event.
		return nil
	}

	staff, err := s.repo.GetStaffUsers(ctx)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to resolve staff recipients", map[string]interface{}{"error": err})
		return err // NATS will retry
	}

	metaJSON, _ := json.Marshal(payload)

	for _, u := range staff {
		notif := model.Notification{
			ID:        uuid.New(),
			UserID:    u.Id,
			TypeCode:  event.EventType(),
			Title:     title,
			Message:   message,
			Metadata:  datatypes.JSON(metaJSON),
			IsRead:    false,
			CreatedAt: time.Now(),
		}

		if err := s.repo.CreateNotification(ctx, &notif); err != nil {
			s.logger.Error("NotificationService", fmt.Sprintf("Error saving notification for user %s", u.Id), map[string]interface{}{"error": err})
			continue
		}

		if s.delivery != nil {
			s.delivery.Send(u.Id, notif)
		}
	}

	return nil
}

// GetNotifications fetches notifications for a user.
func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

// GetUnreadCount fetches unread count.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// MarkAsRead marks a notification as read.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read for a user.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
