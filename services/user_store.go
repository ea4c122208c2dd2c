package services

import (
	"context"
	"errors"
	"fmt"

	"amoro_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserStore is the thin slice of the profile collaborator the realtime
// core depends on.
type UserStore interface {
	Exists(ctx context.Context, userID string) (bool, error)
	PushToken(ctx context.Context, userID string) (string, error)
	SetPushToken(ctx context.Context, userID, token string) error
}

type DynamoUserStore struct {
	Dynamo *DynamoService
}

func NewDynamoUserStore(dynamo *DynamoService) *DynamoUserStore {
	return &DynamoUserStore{Dynamo: dynamo}
}

func userKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

func (s *DynamoUserStore) Exists(ctx context.Context, userID string) (bool, error) {
	_, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, userKey(userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check user %s: %w", userID, err)
	}
	return true, nil
}

func (s *DynamoUserStore) PushToken(ctx context.Context, userID string) (string, error) {
	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, userKey(userID))
	if err != nil {
		return "", err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return "", fmt.Errorf("failed to parse user profile: %w", err)
	}
	return profile.PushToken, nil
}

func (s *DynamoUserStore) SetPushToken(ctx context.Context, userID, token string) error {
	applied, err := s.Dynamo.UpdateItemConditional(ctx, models.UserProfilesTable, userKey(userID),
		"SET pushToken = :token", "attribute_exists(userId)",
		map[string]types.AttributeValue{
			":token": &types.AttributeValueMemberS{Value: token},
		}, nil,
	)
	if err != nil {
		return fmt.Errorf("failed to set push token for %s: %w", userID, err)
	}
	if !applied {
		return ErrNotFound
	}
	return nil
}
