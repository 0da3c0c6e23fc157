package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"photomarket/internal/domain"
)

type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) FindPaidBefore(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderStore) Confirm(ctx context.Context, orderID int64, at time.Time) error {
	args := m.Called(ctx, orderID, at)
	return args.Error(0)
}

func (m *MockOrderStore) EnsureDelivery(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) FindActivePastService(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingStore) MarkCompleted(ctx context.Context, bookingID int64, auto bool) error {
	args := m.Called(ctx, bookingID, auto)
	return args.Error(0)
}

func (m *MockBookingStore) FindCompletedDepositPaid(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingStore) FindForReminder(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingStore) MarkReminderSent(ctx context.Context, bookingID int64) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

type MockSettlement struct {
	mock.Mock
}

func (m *MockSettlement) TransferBalance(ctx context.Context, bookingID int64, destinationAccount string) (*domain.Transfer, error) {
	args := m.Called(ctx, bookingID, destinationAccount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Queue(ctx context.Context, userID int64, ntype domain.NotificationType, title, message string, data map[string]any, actionURL string) error {
	args := m.Called(ctx, userID, ntype, title, message, data, actionURL)
	return args.Error(0)
}

func newTestService() (*Service, *MockOrderStore, *MockBookingStore, *MockSettlement, *MockQueue) {
	orders := new(MockOrderStore)
	bookings := new(MockBookingStore)
	settlement := new(MockSettlement)
	queue := new(MockQueue)
	svc := NewService(orders, bookings, settlement, queue, nil)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc, orders, bookings, settlement, queue
}

func anyQueueOK(queue *MockQueue) {
	queue.On("Queue", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func TestAutoConfirmOrders_PartialFailure(t *testing.T) {
	svc, orders, _, _, queue := newTestService()
	anyQueueOK(queue)

	rows := make([]domain.Order, 0, 10)
	for i := int64(1); i <= 10; i++ {
		rows = append(rows, domain.Order{ID: i, ClientID: 100 + i, PhotographeID: 200 + i})
	}
	orders.On("FindPaidBefore", mock.Anything, mock.Anything).Return(rows, nil)
	orders.On("Confirm", mock.Anything, int64(4), mock.Anything).Return(assert.AnError)
	orders.On("Confirm", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	orders.On("EnsureDelivery", mock.Anything, mock.Anything).Return(nil)

	res, err := svc.AutoConfirmOrders(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 10, res.Processed)
	assert.Equal(t, 9, res.Succeeded)
	if assert.Len(t, res.Errors, 1) {
		assert.Equal(t, int64(4), res.Errors[0].ID)
	}
}

func TestAutoConfirmOrders_CutoffIs24Hours(t *testing.T) {
	svc, orders, _, _, _ := newTestService()

	var seen time.Time
	orders.On("FindPaidBefore", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		seen = cutoff
		return true
	})).Return([]domain.Order{}, nil)

	_, err := svc.AutoConfirmOrders(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, svc.now().Add(-24*time.Hour), seen)
}

func TestAutoCompleteBookings_GivesADayOfGrace(t *testing.T) {
	svc, _, bookings, _, _ := newTestService()

	// A booking one hour past its service date must stay out of the
	// sweep; only rows older than the day-back cutoff are selected.
	var seen time.Time
	bookings.On("FindActivePastService", mock.Anything, mock.MatchedBy(func(before time.Time) bool {
		seen = before
		return true
	})).Return([]domain.Booking{}, nil)

	res, err := svc.AutoCompleteBookings(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, svc.now().Add(-24*time.Hour), seen)
	assert.False(t, svc.now().Add(-time.Hour).Before(seen),
		"a booking 1 hour past service would slip inside the cutoff")
	assert.True(t, svc.now().Add(-30*time.Hour).Before(seen),
		"a booking 30 hours past service must fall inside the cutoff")
}

func TestAutoCompleteBookings_NotifiesBothParties(t *testing.T) {
	svc, _, bookings, _, queue := newTestService()

	bookings.On("FindActivePastService", mock.Anything, svc.now().Add(-24*time.Hour)).Return([]domain.Booking{
		{ID: 7, ClientID: 101, PhotographeID: 201},
	}, nil)
	bookings.On("MarkCompleted", mock.Anything, int64(7), true).Return(nil)
	queue.On("Queue", mock.Anything, int64(101), domain.NotifReviewRequest, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	queue.On("Queue", mock.Anything, int64(201), domain.NotifBookingCompleted, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	res, err := svc.AutoCompleteBookings(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	queue.AssertExpectations(t)
}

func TestAutoTransferBalances_CollectsUpstreamFailures(t *testing.T) {
	svc, _, bookings, settlement, _ := newTestService()

	bookings.On("FindCompletedDepositPaid", mock.Anything).Return([]domain.Booking{
		{ID: 1}, {ID: 2}, {ID: 3},
	}, nil)
	settlement.On("TransferBalance", mock.Anything, int64(2), "").Return(nil, assert.AnError)
	settlement.On("TransferBalance", mock.Anything, mock.Anything, "").Return(&domain.Transfer{}, nil)

	res, err := svc.AutoTransferBalances(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 3, res.Processed)
	assert.Equal(t, 2, res.Succeeded)
	if assert.Len(t, res.Errors, 1) {
		assert.Equal(t, int64(2), res.Errors[0].ID)
	}
}

func TestSendReminders_MarksRowAfterNotifying(t *testing.T) {
	svc, _, bookings, _, queue := newTestService()
	anyQueueOK(queue)

	serviceDate := svc.now().Add(30 * time.Hour)
	bookings.On("FindForReminder", mock.Anything, svc.now().Add(24*time.Hour), svc.now().Add(48*time.Hour)).
		Return([]domain.Booking{{ID: 9, ClientID: 101, PhotographeID: 201, ServiceDate: serviceDate}}, nil)
	bookings.On("MarkReminderSent", mock.Anything, int64(9)).Return(nil)

	res, err := svc.SendReminders(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	bookings.AssertCalled(t, "MarkReminderSent", mock.Anything, int64(9))
}

func TestSendReminders_FailedNotifyKeepsRowEligible(t *testing.T) {
	svc, _, bookings, _, queue := newTestService()

	bookings.On("FindForReminder", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.Booking{{ID: 9, ClientID: 101, PhotographeID: 201, ServiceDate: svc.now()}}, nil)
	queue.On("Queue", mock.Anything, int64(101), mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	res, err := svc.SendReminders(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 0, res.Succeeded)
	bookings.AssertNotCalled(t, "MarkReminderSent", mock.Anything, mock.Anything)
}
