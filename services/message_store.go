package services

import (
	"context"
	"fmt"
	"sort"

	"amoro_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MessageStore is the durable record of messages and their delivery
// status. Status writes are conditional on the current status preceding
// the target, so concurrent writers can never regress the lifecycle.
type MessageStore interface {
	Insert(ctx context.Context, m models.Message) error

	// MarkReceivedForReceiver bulk-transitions every "sent" message
	// addressed to receiverID into "received". Used when a user comes
	// online. Returns how many messages were transitioned.
	MarkReceivedForReceiver(ctx context.Context, receiverID string) (int, error)

	// MarkSeen bulk-transitions every message from senderID to
	// receiverID that is not yet "seen" into "seen". Receiver-authoritative.
	MarkSeen(ctx context.Context, senderID, receiverID string) (int, error)

	// Conversation returns all messages between the two users, oldest first.
	Conversation(ctx context.Context, userA, userB string) ([]models.Message, error)

	// ConversationPartners returns the latest message per distinct peer
	// of userID, newest first.
	ConversationPartners(ctx context.Context, userID string) ([]models.Message, error)
}

// DynamoMessageStore keeps messages in the Messages table, keyed by
// (conversationId, messageId) with GSIs on receiverId and senderId.
type DynamoMessageStore struct {
	Dynamo *DynamoService
}

func NewDynamoMessageStore(dynamo *DynamoService) *DynamoMessageStore {
	return &DynamoMessageStore{Dynamo: dynamo}
}

func (s *DynamoMessageStore) Insert(ctx context.Context, m models.Message) error {
	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, m); err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}
	return nil
}

// advanceStatus conditionally moves one message to the target status.
// The condition lists every status allowed to precede the target, so a
// seen write racing a received write leaves seen in place.
func (s *DynamoMessageStore) advanceStatus(ctx context.Context, conversationID, messageID, to string) (bool, error) {
	preds := models.StatusPredecessors(to)
	if len(preds) == 0 {
		return false, fmt.Errorf("status %q has no predecessors", to)
	}

	condition := "#status IN ("
	values := map[string]types.AttributeValue{
		":to": &types.AttributeValueMemberS{Value: to},
	}
	for i, pred := range preds {
		placeholder := fmt.Sprintf(":p%d", i)
		if i > 0 {
			condition += ", "
		}
		condition += placeholder
		values[placeholder] = &types.AttributeValueMemberS{Value: pred}
	}
	condition += ")"

	key := map[string]types.AttributeValue{
		"conversationId": &types.AttributeValueMemberS{Value: conversationID},
		"messageId":      &types.AttributeValueMemberS{Value: messageID},
	}

	return s.Dynamo.UpdateItemConditional(ctx, models.MessagesTable, key,
		"SET #status = :to", condition, values,
		map[string]string{"#status": "status"},
	)
}

func (s *DynamoMessageStore) MarkReceivedForReceiver(ctx context.Context, receiverID string) (int, error) {
	keyCondition := "receiverId = :receiver"
	values := map[string]types.AttributeValue{
		":receiver": &types.AttributeValueMemberS{Value: receiverID},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MessagesTable, models.ReceiverIndex, keyCondition, values, nil, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch inbox for %s: %w", receiverID, err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return 0, fmt.Errorf("failed to parse messages: %w", err)
	}

	updated := 0
	var lastErr error
	for _, m := range messages {
		if m.Status != models.MessageStatusSent {
			continue
		}
		applied, err := s.advanceStatus(ctx, m.ConversationID, m.MessageID, models.MessageStatusReceived)
		if err != nil {
			lastErr = err
			continue
		}
		if applied {
			updated++
		}
	}
	return updated, lastErr
}

func (s *DynamoMessageStore) MarkSeen(ctx context.Context, senderID, receiverID string) (int, error) {
	keyCondition := "conversationId = :conversation"
	values := map[string]types.AttributeValue{
		":conversation": &types.AttributeValueMemberS{Value: models.PairConversationID(senderID, receiverID)},
		":sender":       &types.AttributeValueMemberS{Value: senderID},
		":seen":         &types.AttributeValueMemberS{Value: models.MessageStatusSeen},
	}
	names := map[string]string{"#status": "status"}

	items, err := s.Dynamo.QueryItemsWithFilters(ctx, models.MessagesTable, keyCondition, values, names,
		"senderId = :sender AND #status <> :seen")
	if err != nil {
		return 0, fmt.Errorf("failed to fetch unseen messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return 0, fmt.Errorf("failed to parse messages: %w", err)
	}

	updated := 0
	var lastErr error
	for _, m := range messages {
		applied, err := s.advanceStatus(ctx, m.ConversationID, m.MessageID, models.MessageStatusSeen)
		if err != nil {
			lastErr = err
			continue
		}
		if applied {
			updated++
		}
	}
	return updated, lastErr
}

func (s *DynamoMessageStore) Conversation(ctx context.Context, userA, userB string) ([]models.Message, error) {
	keyCondition := "conversationId = :conversation"
	values := map[string]types.AttributeValue{
		":conversation": &types.AttributeValueMemberS{Value: models.PairConversationID(userA, userB)},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.MessagesTable, keyCondition, values, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].SentAt < messages[j].SentAt
	})
	return messages, nil
}

func (s *DynamoMessageStore) ConversationPartners(ctx context.Context, userID string) ([]models.Message, error) {
	value := map[string]types.AttributeValue{
		":user": &types.AttributeValueMemberS{Value: userID},
	}

	received, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MessagesTable, models.ReceiverIndex, "receiverId = :user", value, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch received messages: %w", err)
	}
	sent, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MessagesTable, models.SenderIndex, "senderId = :user", value, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sent messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(append(received, sent...), &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	// Keep only the newest message per peer; the merge happens here, not
	// in the database.
	latest := make(map[string]models.Message)
	for _, m := range messages {
		peer := m.SenderID
		if peer == userID {
			peer = m.ReceiverID
		}
		if existing, ok := latest[peer]; !ok || m.SentAt > existing.SentAt {
			latest[peer] = m
		}
	}

	result := make([]models.Message, 0, len(latest))
	for _, m := range latest {
		result = append(result, m)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SentAt > result[j].SentAt
	})
	return result, nil
}
