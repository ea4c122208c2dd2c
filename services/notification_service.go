package services

import (
	"context"
	"time"

	"amoro_server/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier is what the match trigger and delivery paths use to fan out
// notifications. Implementations must keep the create/delete pairing
// exact; actual push delivery is best-effort.
type Notifier interface {
	Notify(ctx context.Context, senderID, receiverID, notificationType, content string) error
	Remove(ctx context.Context, senderID, receiverID, notificationType string) (bool, error)
}

// PushSender hands a rendered notification to the push collaborator.
// Delivery and payload formatting are its problem, not ours.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// LogPushSender is the default dispatcher when no push backend is
// configured; it only records that a push would have gone out.
type LogPushSender struct {
	Logger *zap.SugaredLogger
}

func (s *LogPushSender) Send(_ context.Context, token, title, body string, data map[string]string) error {
	s.Logger.Infow("push dispatched", "title", title, "body", body, "data", data)
	return nil
}

// NotificationService persists notification records and triggers push
// dispatch for newly created ones.
type NotificationService struct {
	Store  NotificationStore
	Users  UserStore
	Push   PushSender
	Logger *zap.SugaredLogger
}

func NewNotificationService(store NotificationStore, users UserStore, push PushSender, logger *zap.SugaredLogger) *NotificationService {
	return &NotificationService{Store: store, Users: users, Push: push, Logger: logger}
}

// Notify creates the notification record if this (sender, receiver,
// type) slot is empty and dispatches a push for it. A pre-existing
// record makes the whole call a no-op.
func (s *NotificationService) Notify(ctx context.Context, senderID, receiverID, notificationType, content string) error {
	notification := models.Notification{
		ReceiverID:     receiverID,
		SenderID:       senderID,
		NotificationID: uuid.NewString(),
		Type:           notificationType,
		Content:        content,
		Status:         models.NotificationStatusSent,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	created, err := s.Store.Create(ctx, notification)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	// Push dispatch is isolated: its failure never unwinds the record.
	if s.Push == nil {
		return nil
	}
	token, err := s.Users.PushToken(ctx, receiverID)
	if err != nil || token == "" {
		s.Logger.Infow("receiver device token not found", "receiver", receiverID)
		return nil
	}
	title, body := pushText(notificationType)
	if err := s.Push.Send(ctx, token, title, body, map[string]string{
		"type":           notificationType,
		"notificationId": notification.NotificationID,
	}); err != nil {
		s.Logger.Warnw("push dispatch failed", "receiver", receiverID, "type", notificationType, "error", err)
	}
	return nil
}

func (s *NotificationService) Remove(ctx context.Context, senderID, receiverID, notificationType string) (bool, error) {
	return s.Store.Delete(ctx, senderID, receiverID, notificationType)
}

func (s *NotificationService) List(ctx context.Context, receiverID string) ([]models.Notification, error) {
	return s.Store.ListFor(ctx, receiverID)
}

// MarkReceived flips a notification's status once the client has pulled it.
func (s *NotificationService) MarkReceived(ctx context.Context, receiverID, senderID, notificationType string) error {
	applied, err := s.Store.SetStatus(ctx, receiverID, senderID, notificationType, models.NotificationStatusReceived)
	if err != nil {
		return err
	}
	if !applied {
		return ErrNotFound
	}
	return nil
}

func pushText(notificationType string) (title, body string) {
	switch notificationType {
	case models.NotificationTypeLike:
		return "New Like", "Someone liked your profile!"
	case models.NotificationTypeMatch:
		return "New Match", "You have a new match!"
	case models.NotificationTypeMessage:
		return "New Message", "You have a new message!"
	case models.NotificationTypeProfileView:
		return "Profile View", "Someone viewed your profile!"
	default:
		return "New Notification", "You have a new notification!"
	}
}
