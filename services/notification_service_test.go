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

type memNotificationStore struct {
	records map[string]models.Notification // receiverID + "/" + pairKey
}

func newMemNotificationStore() *memNotificationStore {
	return &memNotificationStore{records: map[string]models.Notification{}}
}

func (m *memNotificationStore) key(receiverID, senderID, notificationType string) string {
	return receiverID + "/" + models.NotificationPairKey(notificationType, senderID)
}

func (m *memNotificationStore) Create(ctx context.Context, n models.Notification) (bool, error) {
	k := m.key(n.ReceiverID, n.SenderID, n.Type)
	if _, ok := m.records[k]; ok {
		return false, nil
	}
	m.records[k] = n
	return true, nil
}

func (m *memNotificationStore) Delete(ctx context.Context, senderID, receiverID, notificationType string) (bool, error) {
	k := m.key(receiverID, senderID, notificationType)
	if _, ok := m.records[k]; !ok {
		return false, nil
	}
	delete(m.records, k)
	return true, nil
}

func (m *memNotificationStore) ListFor(ctx context.Context, receiverID string) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range m.records {
		if n.ReceiverID == receiverID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotificationStore) SetStatus(ctx context.Context, receiverID, senderID, notificationType, status string) (bool, error) {
	k := m.key(receiverID, senderID, notificationType)
	n, ok := m.records[k]
	if !ok {
		return false, nil
	}
	n.Status = status
	m.records[k] = n
	return true, nil
}

type fakePushSender struct {
	sent []string // tokens
	err  error
}

func (f *fakePushSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, token)
	return nil
}

func TestNotifyCreatesAndPushes(t *testing.T) {
	store := newMemNotificationStore()
	users := &memUserStore{users: map[string]string{"bob": "device-token"}}
	push := &fakePushSender{}
	svc := NewNotificationService(store, users, push, zap.NewNop().Sugar())

	err := svc.Notify(context.Background(), "alice", "bob", models.NotificationTypeLike, "Someone liked your profile!")
	require.NoError(t, err)

	list, err := svc.List(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].SenderID)
	assert.Equal(t, models.NotificationStatusSent, list[0].Status)

	assert.Equal(t, []string{"device-token"}, push.sent)
}

func TestNotifyDuplicateIsNoOp(t *testing.T) {
	store := newMemNotificationStore()
	users := &memUserStore{users: map[string]string{"bob": "device-token"}}
	push := &fakePushSender{}
	svc := NewNotificationService(store, users, push, zap.NewNop().Sugar())

	require.NoError(t, svc.Notify(context.Background(), "alice", "bob", models.NotificationTypeLike, "x"))
	require.NoError(t, svc.Notify(context.Background(), "alice", "bob", models.NotificationTypeLike, "x"))

	list, _ := svc.List(context.Background(), "bob")
	assert.Len(t, list, 1)
	assert.Len(t, push.sent, 1, "a duplicate must not push again")
}

func TestNotifyDistinctTypesCoexist(t *testing.T) {
	store := newMemNotificationStore()
	users := &memUserStore{users: map[string]string{"bob": ""}}
	svc := NewNotificationService(store, users, &fakePushSender{}, zap.NewNop().Sugar())

	require.NoError(t, svc.Notify(context.Background(), "alice", "bob", models.NotificationTypeLike, "x"))
	require.NoError(t, svc.Notify(context.Background(), "alice", "bob", models.NotificationTypeMatch, "y"))

	list, _ := svc.List(context.Background(), "bob")
	assert.Len(t, list, 2)
}

func TestNotifyWithoutPushToken(t *testing.T) {
	store := newMemNotificationStore()
	users := &memUserStore{users: map[string]string{"bob": ""}}
	push := &fakePushSender{}
	svc := NewNotificationService(store, users, push, zap.NewNop().Sugar())

	require.NoError(t, svc.Notify(context.Background(), "alice", "bob", models.NotificationTypeLike, "x"))

	// The record exists even though nothing could be dispatched.
	list, _ := svc.List(context.Background(), "bob")
	assert.Len(t, list, 1)
	assert.Empty(t, push.sent)
}

func TestNotifyPushFailureIsSwallowed(t *testing.T) {
	store := newMemNotificationStore()
	users := &memUserStore{users: map[string]string{"bob": "device-token"}}
	push := &fakePushSender{err: errors.New("gateway down")}
	svc := NewNotificationService(store, users, push, zap.NewNop().Sugar())

	err := svc.Notify(context.Background(), "alice", "bob", models.NotificationTypeLike, "x")
	assert.NoError(t, err)
}

func TestRemoveNotification(t *testing.T) {
	store := newMemNotificationStore()
	users := &memUserStore{users: map[string]string{"bob": ""}}
	svc := NewNotificationService(store, users, nil, zap.NewNop().Sugar())

	require.NoError(t, svc.Notify(context.Background(), "alice", "bob", models.NotificationTypeLike, "x"))

	removed, err := svc.Remove(context.Background(), "alice", "bob", models.NotificationTypeLike)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Remove(context.Background(), "alice", "bob", models.NotificationTypeLike)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestMarkReceived(t *testing.T) {
	store := newMemNotificationStore()
	users := &memUserStore{users: map[string]string{"bob": ""}}
	svc := NewNotificationService(store, users, nil, zap.NewNop().Sugar())

	require.NoError(t, svc.Notify(context.Background(), "alice", "bob", models.NotificationTypeLike, "x"))
	require.NoError(t, svc.MarkReceived(context.Background(), "bob", "alice", models.NotificationTypeLike))

	list, _ := svc.List(context.Background(), "bob")
	require.Len(t, list, 1)
	assert.Equal(t, models.NotificationStatusReceived, list[0].Status)

	err := svc.MarkReceived(context.Background(), "bob", "carol", models.NotificationTypeLike)
	assert.ErrorIs(t, err, ErrNotFound)
}
