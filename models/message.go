package models

import "strings"

// Message statuses form a one-way lifecycle: sent -> received -> seen.
const (
	MessageStatusSent     = "sent"
	MessageStatusReceived = "received"
	MessageStatusSeen     = "seen"
)

var statusRank = map[string]int{
	MessageStatusSent:     0,
	MessageStatusReceived: 1,
	MessageStatusSeen:     2,
}

// StatusPrecedes reports whether from comes strictly before to in the
// delivery lifecycle. Unknown statuses never precede anything.
func StatusPrecedes(from, to string) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return fromRank < toRank
}

// StatusPredecessors returns every status that is allowed to transition
// into to. Used to build conditional update expressions so a racing
// writer can never regress a message's status.
func StatusPredecessors(to string) []string {
	var preds []string
	for status := range statusRank {
		if StatusPrecedes(status, to) {
			preds = append(preds, status)
		}
	}
	return preds
}

type Message struct {
	ConversationID string `dynamodbav:"conversationId" json:"conversationId"`
	MessageID      string `dynamodbav:"messageId" json:"messageId"`
	SenderID       string `dynamodbav:"senderId" json:"senderId"`
	ReceiverID     string `dynamodbav:"receiverId" json:"receiverId"`
	Content        string `dynamodbav:"content" json:"content"`
	SentAt         string `dynamodbav:"sentAt" json:"sentAt"`
	Status         string `dynamodbav:"status" json:"status"`
}

// PairConversationID builds the canonical conversation key for two users.
// Both directions of a conversation map to the same key.
func PairConversationID(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "#" + b
}

// MessagesTable is the DynamoDB table name for direct messages
const MessagesTable = "Messages"

// GSIs used to catch up a user's inbox and to list conversation partners
const (
	ReceiverIndex = "receiverId-index"
	SenderIndex   = "senderId-index"
)
