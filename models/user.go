package models

// UserProfile is owned by the profile CRUD collaborator; the realtime
// core only reads it for existence checks and push-token lookup.
type UserProfile struct {
	UserID    string `dynamodbav:"userId" json:"userId"`
	Username  string `dynamodbav:"username,omitempty" json:"username,omitempty"`
	PushToken string `dynamodbav:"pushToken,omitempty" json:"-"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
