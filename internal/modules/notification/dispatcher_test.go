package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"photomarket/internal/domain"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockStore) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockStore) MarkRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockStore) MarkAllRead(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockStore) FindUnsent(ctx context.Context, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockStore) MarkSent(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, payload any) error {
	args := m.Called(routingKey, payload)
	return args.Error(0)
}

type MockPusher struct {
	mock.Mock
}

func (m *MockPusher) Push(userID int64, payload any) {
	m.Called(userID, payload)
}

func TestDrainOnce_PublishesAndMarksSent(t *testing.T) {
	store := new(MockStore)
	publisher := new(MockPublisher)
	pusher := new(MockPusher)
	d := NewDispatcher(store, publisher, pusher, nil)

	rows := []domain.Notification{
		{ID: 1, UserID: 101, Type: domain.NotifBookingCancelled},
		{ID: 2, UserID: 102, Type: domain.NotifRefundProcessed},
	}
	store.On("FindUnsent", mock.Anything, dispatchBatch).Return(rows, nil)
	publisher.On("Publish", "notification.booking_cancelled", rows[0]).Return(nil)
	publisher.On("Publish", "notification.refund_processed", rows[1]).Return(nil)
	pusher.On("Push", int64(101), rows[0]).Return()
	pusher.On("Push", int64(102), rows[1]).Return()
	store.On("MarkSent", mock.Anything, int64(1), mock.Anything).Return(nil)
	store.On("MarkSent", mock.Anything, int64(2), mock.Anything).Return(nil)

	err := d.DrainOnce(context.Background())

	assert.NoError(t, err)
	store.AssertExpectations(t)
	publisher.AssertExpectations(t)
	pusher.AssertExpectations(t)
}

func TestDrainOnce_FailedPublishLeavesRowUnsent(t *testing.T) {
	store := new(MockStore)
	publisher := new(MockPublisher)
	d := NewDispatcher(store, publisher, nil, nil)

	rows := []domain.Notification{
		{ID: 1, UserID: 101, Type: domain.NotifBookingReminder},
		{ID: 2, UserID: 102, Type: domain.NotifBookingReminder},
	}
	store.On("FindUnsent", mock.Anything, dispatchBatch).Return(rows, nil)
	publisher.On("Publish", mock.Anything, rows[0]).Return(assert.AnError)
	publisher.On("Publish", mock.Anything, rows[1]).Return(nil)
	store.On("MarkSent", mock.Anything, int64(2), mock.Anything).Return(nil)

	err := d.DrainOnce(context.Background())

	assert.NoError(t, err)
	store.AssertNotCalled(t, "MarkSent", mock.Anything, int64(1), mock.Anything)
	store.AssertCalled(t, "MarkSent", mock.Anything, int64(2), mock.Anything)
}

func TestQueue_WritesOutboxRow(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store)

	store.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == 101 &&
			n.Type == domain.NotifTransferSent &&
			n.Title == "Virement envoyé" &&
			!n.Sent
	})).Return(nil)

	err := svc.Queue(context.Background(), 101, domain.NotifTransferSent, "Virement envoyé", "msg", nil, "/bookings/1")

	assert.NoError(t, err)
	store.AssertExpectations(t)
}
