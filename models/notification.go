package models

// Notification types
const (
	NotificationTypeLike        = "LIKE"
	NotificationTypeMatch       = "MATCH"
	NotificationTypeMessage     = "MESSAGE"
	NotificationTypeProfileView = "PROFILE_VIEW"
)

// Notification statuses
const (
	NotificationStatusSent     = "sent"
	NotificationStatusReceived = "received"
)

// Notification is keyed by (receiverId, pairKey) where pairKey is
// "<type>#<senderId>". The key shape is what makes "at most one LIKE
// notification per (sender, receiver) pair" hold without any read.
type Notification struct {
	ReceiverID     string `dynamodbav:"receiverId" json:"receiverId"`
	PairKey        string `dynamodbav:"pairKey" json:"-"`
	NotificationID string `dynamodbav:"notificationId" json:"notificationId"`
	SenderID       string `dynamodbav:"senderId" json:"senderId"`
	Type           string `dynamodbav:"type" json:"type"`
	Content        string `dynamodbav:"content" json:"content"`
	Status         string `dynamodbav:"status" json:"status"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
}

// NotificationPairKey builds the sort key for a notification record.
func NotificationPairKey(notificationType, senderID string) string {
	return notificationType + "#" + senderID
}

// NotificationsTable is the DynamoDB table name for notifications
const NotificationsTable = "Notifications"
