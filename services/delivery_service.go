package services

import (
	"context"
	"fmt"
	"time"

	"amoro_server/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventNewMessage is pushed to both ends of a conversation when a
// message goes through.
const EventNewMessage = "newMessage"

// PresenceRegistry is the view of the session registry the router needs:
// who is reachable right now and how to push to them. Implemented by
// socket.Registry. The registry's "currently viewing" state is
// deliberately absent: viewing never upgrades a message past "received",
// so the router has no use for it.
type PresenceRegistry interface {
	IsOnline(userID string) bool
	Push(userID, event string, payload interface{}) error
}

// DeliveryService routes a message to its receiver: at-most-once
// realtime push, durable persistence, and the status transition policy.
type DeliveryService struct {
	Messages MessageStore
	Users    UserStore
	Registry PresenceRegistry
	Logger   *zap.SugaredLogger
}

func NewDeliveryService(messages MessageStore, users UserStore, registry PresenceRegistry, logger *zap.SugaredLogger) *DeliveryService {
	return &DeliveryService{Messages: messages, Users: users, Registry: registry, Logger: logger}
}

// Send validates the receiver, pushes to any live connections and
// persists the message with its final status. Persistence is the
// durability contract; the pushes are best-effort. A receiver who is
// actively viewing the conversation still only gets "received"; the
// seen transition stays with the explicit acknowledgement so the status
// machine has a single authority.
func (s *DeliveryService) Send(ctx context.Context, senderID, receiverID, content string) (models.Message, error) {
	if senderID == "" || receiverID == "" || content == "" {
		return models.Message{}, ErrInvalidOperation
	}

	exists, err := s.Users.Exists(ctx, receiverID)
	if err != nil {
		return models.Message{}, fmt.Errorf("failed to check receiver: %w", err)
	}
	if !exists {
		return models.Message{}, ErrNotFound
	}

	message := models.Message{
		ConversationID: models.PairConversationID(senderID, receiverID),
		MessageID:      uuid.NewString(),
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        content,
		SentAt:         time.Now().UTC().Format(time.RFC3339),
		Status:         models.MessageStatusSent,
	}

	// Status reflects realtime delivery, not just storage: upgrade
	// before the write when the receiver has a live connection.
	if s.Registry.IsOnline(receiverID) {
		message.Status = models.MessageStatusReceived
		if err := s.Registry.Push(receiverID, EventNewMessage, message); err != nil {
			// Connection dropped between lookup and push. The message
			// is caught up on the receiver's next connect.
			s.Logger.Infow("realtime push skipped", "receiver", receiverID, "error", err)
		}
	}

	// Echo to the sender's own connection so other devices stay in sync.
	if err := s.Registry.Push(senderID, EventNewMessage, message); err != nil {
		s.Logger.Debugw("sender echo skipped", "sender", senderID, "error", err)
	}

	if err := s.Messages.Insert(ctx, message); err != nil {
		return models.Message{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return message, nil
}
