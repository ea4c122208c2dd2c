package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusPrecedes(t *testing.T) {
	assert.True(t, StatusPrecedes(MessageStatusSent, MessageStatusReceived))
	assert.True(t, StatusPrecedes(MessageStatusSent, MessageStatusSeen))
	assert.True(t, StatusPrecedes(MessageStatusReceived, MessageStatusSeen))

	// Never regress, never self-transition.
	assert.False(t, StatusPrecedes(MessageStatusSeen, MessageStatusReceived))
	assert.False(t, StatusPrecedes(MessageStatusReceived, MessageStatusSent))
	assert.False(t, StatusPrecedes(MessageStatusSent, MessageStatusSent))

	// Unknown statuses never qualify.
	assert.False(t, StatusPrecedes("bogus", MessageStatusSeen))
	assert.False(t, StatusPrecedes(MessageStatusSent, "bogus"))
}

func TestStatusPredecessors(t *testing.T) {
	assert.ElementsMatch(t, []string{MessageStatusSent}, StatusPredecessors(MessageStatusReceived))
	assert.ElementsMatch(t, []string{MessageStatusSent, MessageStatusReceived}, StatusPredecessors(MessageStatusSeen))
	assert.Empty(t, StatusPredecessors(MessageStatusSent))
}

func TestPairConversationID(t *testing.T) {
	// Order of the arguments must not matter.
	assert.Equal(t, PairConversationID("alice", "bob"), PairConversationID("bob", "alice"))
	assert.Equal(t, "alice#bob", PairConversationID("bob", "alice"))
	assert.Equal(t, "user1#user2", PairConversationID("user1", "user2"))
}
