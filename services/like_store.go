package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"amoro_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// LikeStore holds the directed like edges. Adds and removes are atomic
// and report whether they changed anything, which is what keeps the
// like/match trigger idempotent without any pair-level lock.
type LikeStore interface {
	// AddLike inserts the edge likerID -> likedID, returning false when
	// the edge already existed.
	AddLike(ctx context.Context, likerID, likedID, likedAt string) (bool, error)

	// RemoveLike deletes the edge, returning false when it was absent.
	RemoveLike(ctx context.Context, likerID, likedID string) (bool, error)

	// HasLike reports whether likerID has an edge toward likedID.
	HasLike(ctx context.Context, likerID, likedID string) (bool, error)

	// IncomingLikes lists the edges pointing at likedID, newest first.
	IncomingLikes(ctx context.Context, likedID string) ([]models.LikeEdge, error)
}

// MatchStore materializes the undirected match relation on both user
// partitions. Both writes are guarded so a double-like race creates each
// side exactly once.
type MatchStore interface {
	AddMatch(ctx context.Context, userID, otherID, matchedAt string) (bool, error)
	RemoveMatch(ctx context.Context, userID, otherID string) (bool, error)
	MatchesFor(ctx context.Context, userID string) ([]models.Match, error)
}

type DynamoLikeStore struct {
	Dynamo *DynamoService
}

func NewDynamoLikeStore(dynamo *DynamoService) *DynamoLikeStore {
	return &DynamoLikeStore{Dynamo: dynamo}
}

func likeKey(likerID, likedID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"likedId": &types.AttributeValueMemberS{Value: likedID},
		"likerId": &types.AttributeValueMemberS{Value: likerID},
	}
}

func (s *DynamoLikeStore) AddLike(ctx context.Context, likerID, likedID, likedAt string) (bool, error) {
	edge := models.LikeEdge{
		LikedID: likedID,
		LikerID: likerID,
		LikedAt: likedAt,
	}
	return s.Dynamo.PutItemIfAbsent(ctx, models.LikesTable, edge, "likerId")
}

func (s *DynamoLikeStore) RemoveLike(ctx context.Context, likerID, likedID string) (bool, error) {
	return s.Dynamo.DeleteItemIfPresent(ctx, models.LikesTable, likeKey(likerID, likedID), "likerId")
}

func (s *DynamoLikeStore) HasLike(ctx context.Context, likerID, likedID string) (bool, error) {
	_, err := s.Dynamo.GetItem(ctx, models.LikesTable, likeKey(likerID, likedID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *DynamoLikeStore) IncomingLikes(ctx context.Context, likedID string) ([]models.LikeEdge, error) {
	keyCondition := "likedId = :liked"
	values := map[string]types.AttributeValue{
		":liked": &types.AttributeValueMemberS{Value: likedID},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.LikesTable, keyCondition, values, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch likes for %s: %w", likedID, err)
	}

	var edges []models.LikeEdge
	if err := attributevalue.UnmarshalListOfMaps(items, &edges); err != nil {
		return nil, fmt.Errorf("failed to parse like edges: %w", err)
	}

	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].LikedAt > edges[j].LikedAt
	})
	return edges, nil
}

type DynamoMatchStore struct {
	Dynamo *DynamoService
}

func NewDynamoMatchStore(dynamo *DynamoService) *DynamoMatchStore {
	return &DynamoMatchStore{Dynamo: dynamo}
}

func matchKey(userID, otherID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId":  &types.AttributeValueMemberS{Value: userID},
		"otherId": &types.AttributeValueMemberS{Value: otherID},
	}
}

func (s *DynamoMatchStore) AddMatch(ctx context.Context, userID, otherID, matchedAt string) (bool, error) {
	match := models.Match{
		UserID:    userID,
		OtherID:   otherID,
		MatchedAt: matchedAt,
	}
	return s.Dynamo.PutItemIfAbsent(ctx, models.MatchesTable, match, "otherId")
}

func (s *DynamoMatchStore) RemoveMatch(ctx context.Context, userID, otherID string) (bool, error) {
	return s.Dynamo.DeleteItemIfPresent(ctx, models.MatchesTable, matchKey(userID, otherID), "otherId")
}

func (s *DynamoMatchStore) MatchesFor(ctx context.Context, userID string) ([]models.Match, error) {
	keyCondition := "userId = :user"
	values := map[string]types.AttributeValue{
		":user": &types.AttributeValueMemberS{Value: userID},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.MatchesTable, keyCondition, values, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matches for %s: %w", userID, err)
	}

	var matches []models.Match
	if err := attributevalue.UnmarshalListOfMaps(items, &matches); err != nil {
		return nil, fmt.Errorf("failed to parse matches: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchedAt > matches[j].MatchedAt
	})
	return matches, nil
}
