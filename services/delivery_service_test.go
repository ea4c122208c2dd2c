package services

import (
	"context"
	"errors"
	"testing"

	"amoro_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memMessageStore struct {
	inserted  []models.Message
	insertErr error
}

func (m *memMessageStore) Insert(ctx context.Context, msg models.Message) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, msg)
	return nil
}

func (m *memMessageStore) MarkReceivedForReceiver(ctx context.Context, receiverID string) (int, error) {
	return 0, nil
}

func (m *memMessageStore) MarkSeen(ctx context.Context, senderID, receiverID string) (int, error) {
	return 0, nil
}

func (m *memMessageStore) Conversation(ctx context.Context, userA, userB string) ([]models.Message, error) {
	return nil, nil
}

func (m *memMessageStore) ConversationPartners(ctx context.Context, userID string) ([]models.Message, error) {
	return nil, nil
}

type memUserStore struct {
	users  map[string]string // userID -> push token
	getErr error
}

func (m *memUserStore) Exists(ctx context.Context, userID string) (bool, error) {
	if m.getErr != nil {
		return false, m.getErr
	}
	_, ok := m.users[userID]
	return ok, nil
}

func (m *memUserStore) PushToken(ctx context.Context, userID string) (string, error) {
	token, ok := m.users[userID]
	if !ok {
		return "", ErrNotFound
	}
	return token, nil
}

func (m *memUserStore) SetPushToken(ctx context.Context, userID, token string) error {
	if _, ok := m.users[userID]; !ok {
		return ErrNotFound
	}
	m.users[userID] = token
	return nil
}

// fakePresence scripts who is online and records pushes per user.
type fakePresence struct {
	online     map[string]bool
	pushes     map[string][]models.Message
	pushErrFor string
}

func newFakePresence(online ...string) *fakePresence {
	p := &fakePresence{
		online: map[string]bool{},
		pushes: map[string][]models.Message{},
	}
	for _, u := range online {
		p.online[u] = true
	}
	return p
}

func (p *fakePresence) IsOnline(userID string) bool { return p.online[userID] }

func (p *fakePresence) Push(userID, event string, payload interface{}) error {
	if !p.online[userID] {
		return errors.New("not connected")
	}
	if userID == p.pushErrFor {
		return errors.New("write buffer full")
	}
	p.pushes[userID] = append(p.pushes[userID], payload.(models.Message))
	return nil
}

func newDelivery(store *memMessageStore, users *memUserStore, presence *fakePresence) *DeliveryService {
	return NewDeliveryService(store, users, presence, zap.NewNop().Sugar())
}

func TestSendToOfflineReceiver(t *testing.T) {
	store := &memMessageStore{}
	users := &memUserStore{users: map[string]string{"alice": "", "bob": ""}}
	presence := newFakePresence("alice")
	svc := newDelivery(store, users, presence)

	msg, err := svc.Send(context.Background(), "alice", "bob", "hey")
	require.NoError(t, err)

	assert.Equal(t, models.MessageStatusSent, msg.Status)
	assert.Equal(t, "alice", msg.SenderID)
	assert.Equal(t, "bob", msg.ReceiverID)
	assert.Equal(t, models.PairConversationID("alice", "bob"), msg.ConversationID)
	assert.NotEmpty(t, msg.MessageID)
	assert.NotEmpty(t, msg.SentAt)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, msg, store.inserted[0])
	assert.Empty(t, presence.pushes["bob"])
}

func TestSendToOnlineReceiver(t *testing.T) {
	store := &memMessageStore{}
	users := &memUserStore{users: map[string]string{"alice": "", "bob": ""}}
	presence := newFakePresence("alice", "bob")
	svc := newDelivery(store, users, presence)

	msg, err := svc.Send(context.Background(), "alice", "bob", "hey")
	require.NoError(t, err)

	assert.Equal(t, models.MessageStatusReceived, msg.Status)
	require.Len(t, presence.pushes["bob"], 1)
	assert.Equal(t, msg, presence.pushes["bob"][0])

	// Persisted copy carries the upgraded status.
	require.Len(t, store.inserted, 1)
	assert.Equal(t, models.MessageStatusReceived, store.inserted[0].Status)
}

func TestSendEchoesToSender(t *testing.T) {
	store := &memMessageStore{}
	users := &memUserStore{users: map[string]string{"alice": "", "bob": ""}}
	presence := newFakePresence("alice", "bob")
	svc := newDelivery(store, users, presence)

	msg, err := svc.Send(context.Background(), "alice", "bob", "hey")
	require.NoError(t, err)

	require.Len(t, presence.pushes["alice"], 1)
	assert.Equal(t, msg, presence.pushes["alice"][0])
}

func TestSendNeverProducesSeen(t *testing.T) {
	store := &memMessageStore{}
	users := &memUserStore{users: map[string]string{"alice": "", "bob": ""}}
	presence := newFakePresence("alice", "bob")
	svc := newDelivery(store, users, presence)

	// However present the receiver is, a send caps out at "received";
	// seen is granted only by the receiver's acknowledgement.
	msg, err := svc.Send(context.Background(), "alice", "bob", "hey")
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusReceived, msg.Status)
	require.Len(t, store.inserted, 1)
	assert.NotEqual(t, models.MessageStatusSeen, store.inserted[0].Status)
}

func TestSendPushFailureIsNotFatal(t *testing.T) {
	store := &memMessageStore{}
	users := &memUserStore{users: map[string]string{"alice": "", "bob": ""}}
	presence := newFakePresence("alice", "bob")
	presence.pushErrFor = "bob"
	svc := newDelivery(store, users, presence)

	msg, err := svc.Send(context.Background(), "alice", "bob", "hey")
	require.NoError(t, err)

	// The status upgrade stands; the copy is caught up on reconnect.
	assert.Equal(t, models.MessageStatusReceived, msg.Status)
	require.Len(t, store.inserted, 1)
}

func TestSendUnknownReceiver(t *testing.T) {
	store := &memMessageStore{}
	users := &memUserStore{users: map[string]string{"alice": ""}}
	svc := newDelivery(store, users, newFakePresence())

	_, err := svc.Send(context.Background(), "alice", "ghost", "hey")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.inserted)
}

func TestSendEmptyContent(t *testing.T) {
	store := &memMessageStore{}
	users := &memUserStore{users: map[string]string{"alice": "", "bob": ""}}
	svc := newDelivery(store, users, newFakePresence())

	_, err := svc.Send(context.Background(), "alice", "bob", "")
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestSendPersistenceFailureIsFatal(t *testing.T) {
	store := &memMessageStore{insertErr: errors.New("throttled")}
	users := &memUserStore{users: map[string]string{"alice": "", "bob": ""}}
	svc := newDelivery(store, users, newFakePresence())

	_, err := svc.Send(context.Background(), "alice", "bob", "hey")
	assert.ErrorIs(t, err, ErrInternal)
}
