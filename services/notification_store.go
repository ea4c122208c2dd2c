package services

import (
	"context"
	"fmt"
	"sort"

	"amoro_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// NotificationStore persists notification records. The (receiver,
// type#sender) key means creating a duplicate is a clean no-op and
// deleting removes exactly the one record for that direction and type.
type NotificationStore interface {
	Create(ctx context.Context, n models.Notification) (bool, error)
	Delete(ctx context.Context, senderID, receiverID, notificationType string) (bool, error)
	ListFor(ctx context.Context, receiverID string) ([]models.Notification, error)
	SetStatus(ctx context.Context, receiverID, senderID, notificationType, status string) (bool, error)
}

type DynamoNotificationStore struct {
	Dynamo *DynamoService
}

func NewDynamoNotificationStore(dynamo *DynamoService) *DynamoNotificationStore {
	return &DynamoNotificationStore{Dynamo: dynamo}
}

func notificationKey(receiverID, senderID, notificationType string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"receiverId": &types.AttributeValueMemberS{Value: receiverID},
		"pairKey":    &types.AttributeValueMemberS{Value: models.NotificationPairKey(notificationType, senderID)},
	}
}

func (s *DynamoNotificationStore) Create(ctx context.Context, n models.Notification) (bool, error) {
	n.PairKey = models.NotificationPairKey(n.Type, n.SenderID)
	return s.Dynamo.PutItemIfAbsent(ctx, models.NotificationsTable, n, "pairKey")
}

func (s *DynamoNotificationStore) Delete(ctx context.Context, senderID, receiverID, notificationType string) (bool, error) {
	return s.Dynamo.DeleteItemIfPresent(ctx, models.NotificationsTable,
		notificationKey(receiverID, senderID, notificationType), "pairKey")
}

func (s *DynamoNotificationStore) ListFor(ctx context.Context, receiverID string) ([]models.Notification, error) {
	keyCondition := "receiverId = :receiver"
	values := map[string]types.AttributeValue{
		":receiver": &types.AttributeValueMemberS{Value: receiverID},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.NotificationsTable, keyCondition, values, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications for %s: %w", receiverID, err)
	}

	var notifications []models.Notification
	if err := attributevalue.UnmarshalListOfMaps(items, &notifications); err != nil {
		return nil, fmt.Errorf("failed to parse notifications: %w", err)
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt > notifications[j].CreatedAt
	})
	return notifications, nil
}

func (s *DynamoNotificationStore) SetStatus(ctx context.Context, receiverID, senderID, notificationType, status string) (bool, error) {
	return s.Dynamo.UpdateItemConditional(ctx, models.NotificationsTable,
		notificationKey(receiverID, senderID, notificationType),
		"SET #status = :status", "attribute_exists(pairKey)",
		map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: status},
		},
		map[string]string{"#status": "status"},
	)
}
