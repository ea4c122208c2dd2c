package models

// LikeEdge is a one-directional expressed interest, owned by the liked
// user's partition so "who liked me" is a single query. At most one edge
// exists per ordered (liker, liked) pair.
type LikeEdge struct {
	LikedID string `dynamodbav:"likedId" json:"likedId"`
	LikerID string `dynamodbav:"likerId" json:"likerId"`
	LikedAt string `dynamodbav:"likedAt" json:"likedAt"`
}

// Match is the bidirectional relation formed by two reciprocal like
// edges. It is materialized twice, once under each user's partition, so
// lookup from either side is O(1).
type Match struct {
	UserID    string `dynamodbav:"userId" json:"userId"`
	OtherID   string `dynamodbav:"otherId" json:"otherId"`
	MatchedAt string `dynamodbav:"matchedAt" json:"matchedAt"`
}

const (
	LikesTable   = "Likes"
	MatchesTable = "Matches"
)
